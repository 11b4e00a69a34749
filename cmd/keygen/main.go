package main

import (
	"flag"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/credentialing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type output struct {
	Key       string `json:"key"`
	KeyPrefix string `json:"key_prefix"`
	KeyHash   string `json:"key_hash"`
	Class     string `json:"class"`
}

// Emite uma chave de API. A chave bruta só é exibida aqui; o banco guarda key_hash e key_prefix.
func main() {
	class := flag.String("class", domain.CredentialClassLive, "classe da chave: live ou test")
	flag.Parse()

	key, err := credentialing.GenerateKey(*class)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao gerar chave")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{
		Key:       key.Raw,
		KeyPrefix: key.Prefix,
		KeyHash:   key.Digest,
		Class:     *class,
	}); err != nil {
		logrus.WithError(err).Fatal("Erro ao escrever saída")
	}
}
