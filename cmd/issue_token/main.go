// issue_token emite un JWT para el personal del restaurante con la misma
// configuración que la API (JWT_SECRET, JWT_ISSUER, JWT_EXPIRATION_MINUTES).
//
// Uso: go run ./cmd/issue_token <user_id> <admin|cocina|cajero>
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/jwt"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "uso: issue_token <user_id> <admin|cocina|cajero>")
		os.Exit(2)
	}
	userID, role := os.Args[1], os.Args[2]
	if !jwt.ValidRole(role) {
		fmt.Fprintf(os.Stderr, "rol %q no válido\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
