package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{port: 8080}
	assert.NoError(t, cfg.validate())

	cfg = &Config{port: 0}
	assert.Error(t, cfg.validate())

	cfg = &Config{port: 70000}
	assert.Error(t, cfg.validate())

	cfg = &Config{port: 8080, tlsCert: "cert.pem"}
	assert.Error(t, cfg.validate(), "tls cert without key")

	cfg = &Config{port: 8080, tlsCert: "cert.pem", tlsKey: "key.pem"}
	assert.NoError(t, cfg.validate())
}

func TestConfigScheme(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "http", cfg.scheme())

	cfg = &Config{tlsCert: "cert.pem", tlsKey: "key.pem"}
	assert.Equal(t, "https", cfg.scheme())
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	cfg := &Config{}
	catalog, err := loadCatalog(cfg)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(catalog.Tracks), 4)
	assert.NotEmpty(t, catalog.ComposerChoices)
}
