// adminpw prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"realty/internal/adapters/observability"
	"realty/internal/app"
)

func main() {
	log.Logger = observability.NewLogger("dev", "adminpw", "info")

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		log.Fatal().Msg("stdin is not a terminal")
	}
	pw := prompt(fd, "Admin password: ")
	if confirm := prompt(fd, "Repeat password: "); !bytes.Equal(pw, confirm) {
		log.Fatal().Msg("passwords do not match")
	}
	if len(pw) < 8 {
		log.Fatal().Msg("password must be at least 8 characters")
	}
	hash, err := app.HashPassword(string(pw))
	if err != nil {
		log.Fatal().Err(err).Msg("hash password failed")
	}
	fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
}

func prompt(fd int, label string) []byte {
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("read password failed")
	}
	return b
}
