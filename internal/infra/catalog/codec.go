package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// adRecord is the stored form of one advertisement. The document is a JSON
// object keyed by advertisement ID whose key order is the catalog order:
//
//	{"ad_01": {"file_path": "ads/coffee.mp4", "tags": ["20s_female", "morning_rush"]}}
type adRecord struct {
	FilePath string   `json:"file_path"`
	Tags     []string `json:"tags"`
}

func toRecord(ad domain.Advertisement) adRecord {
	tags := ad.Tags
	if tags == nil {
		tags = []string{}
	}
	return adRecord{FilePath: ad.DisplayRef, Tags: tags}
}

// Decode reads a catalog document, keeping the key order of the object.
func Decode(r io.Reader) (*domain.Catalog, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: document must be an object", ErrInvalidCatalog)
	}

	var ads []domain.Advertisement
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", ErrInvalidCatalog, tok)
		}

		var rec adRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: advertisement %q: %w", ErrInvalidCatalog, id, err)
		}

		ads = append(ads, domain.NewAdvertisement(id, rec.FilePath, rec.Tags))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	c, err := domain.NewCatalog(ads...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	return c, nil
}

// Encode writes c as an indented catalog document in catalog order.
func Encode(c *domain.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, ad := range c.Advertisements() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(ad.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(toRecord(ad))
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
