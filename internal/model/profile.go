package model

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ProfileProperty is one signed property attached to a profile
type ProfileProperty struct {
	Name      string  `json:"name"`
	Value     string  `json:"value"`
	Signature *string `json:"signature,omitempty"`
}

// Profile is the externally resolved identity of a player
type Profile struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties []ProfileProperty `json:"properties"`
}

// texturesPayload is the decoded form of the textures property
type texturesPayload struct {
	Textures struct {
		Skin *struct {
			URL string `json:"url"`
		} `json:"SKIN"`
	} `json:"textures"`
}

// SkinURL decodes the first property's value and extracts the skin texture URL
func (p *Profile) SkinURL() (string, error) {
	if len(p.Properties) == 0 {
		return "", fmt.Errorf("%w: profile %s has no properties", ErrIdentityDecode, p.ID)
	}

	raw, err := decodeBase64(p.Properties[0].Value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIdentityDecode, err)
	}

	var payload texturesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIdentityDecode, err)
	}
	if payload.Textures.Skin == nil || payload.Textures.Skin.URL == "" {
		return "", fmt.Errorf("%w: profile %s has no skin texture", ErrIdentityDecode, p.ID)
	}

	return payload.Textures.Skin.URL, nil
}

// decodeBase64 accepts both padded and unpadded standard encoding
func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
