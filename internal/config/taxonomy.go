package config

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kkp-asta/internal/model"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

type taxonomyFile struct {
	TransactionTypes []model.TypeSpec `yaml:"transaction_types"`
}

// LoadTaxonomy reads the transaction taxonomy from path, or the embedded
// default when path is empty.
func LoadTaxonomy(path string) (*model.Taxonomy, error) {
	raw := defaultTaxonomy
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read taxonomy %s", path)
		}
		raw = b
	}
	return ParseTaxonomy(raw)
}

func ParseTaxonomy(raw []byte) (*model.Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "parse taxonomy")
	}
	return model.NewTaxonomy(f.TransactionTypes)
}
