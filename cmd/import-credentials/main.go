package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/betbot/alpaca/internal/cli"
	"github.com/betbot/alpaca/pkg/config"
	"github.com/betbot/alpaca/pkg/secretstore"
)

// import-credentials copies the API key pair from a .env file into the
// encrypted secret store, so later runs need only APCA_SECRET_DB and
// APCA_SECRET_KEY.
func main() {
	var (
		inPath    = flag.String("in", ".env", "input .env file path")
		dbPath    = flag.String("badger", getenv(config.EnvSecretDB, "data/secrets.badger"), "badger secrets db path")
		secretKey = flag.String("secret-key", getenv(config.EnvSecretStoreKey, ""), "badger encryption key (32 bytes base64/hex)")
		all       = flag.Bool("all", false, "also store every other variable under env/<NAME>")
	)
	flag.Parse()

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		cli.Fatal(err)
	}
	if keyBytes == nil {
		cli.Fatal(errors.Errorf("secret key is required: set %s or pass -secret-key", config.EnvSecretStoreKey))
	}

	kv, err := godotenv.Read(*inPath)
	if err != nil {
		cli.Fatal(errors.Wrapf(err, "read %s", *inPath))
	}
	keyID, secret := kv[config.EnvKeyID], kv[config.EnvSecretKey]
	if keyID == "" || secret == "" {
		cli.Fatal(errors.Errorf("%s must define %s and %s", *inPath, config.EnvKeyID, config.EnvSecretKey))
	}

	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          *dbPath,
		EncryptionKey: keyBytes,
	})
	if err != nil {
		cli.Fatal(err)
	}
	defer ss.Close()

	if err := ss.SetCredentials(keyID, secret); err != nil {
		cli.Fatal(err)
	}
	written := 2

	if *all {
		for k, v := range kv {
			if k == config.EnvKeyID || k == config.EnvSecretKey {
				continue
			}
			if err := ss.SetString("env/"+k, v); err != nil {
				cli.Fatal(err)
			}
			written++
		}
	}

	fmt.Fprintf(os.Stderr, "imported %d entries into %s\n", written, *dbPath)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
