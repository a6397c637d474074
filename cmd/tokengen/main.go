// Package main provides a CLI tool for generating session tokens against a
// local consentvault. Tokens are signed with the dev key unless -key is set
// and will not validate against a production signing key.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "consentvault/internal/jwt_token"
	"consentvault/internal/platform/config"
	id "consentvault/pkg/domain"
)

const (
	// matches config.FromEnv when JWT_SIGNING_KEY is not set
	devSigningKey   = "dev-secret-key-change-in-production"
	defaultIssuer   = "consentvault"
	defaultAudience = "consentvault-api"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Role      string            `json:"role"`
	ExpiresAt time.Time         `json:"expires_at"`
	Claims    map[string]string `json:"claims"`
}

func main() {
	userCmd := flag.NewFlagSet("user", flag.ExitOnError)
	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)

	userIdentityID := userCmd.String("identity-id", "", "Identity ID (UUID). Generated if empty.")
	userConsentKey := userCmd.String("consent-key", "", "Consent key. Generated if empty.")
	userTTL := userCmd.Duration("ttl", config.DefaultUserTokenTTL, "Token time-to-live")
	userKey := userCmd.String("key", devSigningKey, "Signing key")
	userJSON := userCmd.Bool("json", false, "Output as JSON")

	adminID := adminCmd.String("admin-id", "", "Administrator ID (UUID). Generated if empty.")
	adminTTL := adminCmd.Duration("ttl", config.DefaultAdminTokenTTL, "Token time-to-live")
	adminKey := adminCmd.String("key", devSigningKey, "Signing key")
	adminJSON := adminCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "user":
		_ = userCmd.Parse(os.Args[2:])
		svc := jwttoken.NewJWTService(*userKey, defaultIssuer, defaultAudience, *userTTL, *userTTL)
		identityID := id.IdentityID(parseOrGenerateUUID(*userIdentityID, "identity-id"))
		key := consentKeyOrGenerate(*userConsentKey)
		issued, err := svc.IssueUserToken(context.Background(), identityID, key)
		exitOnErr(err)
		emit(tokenOutput{
			Token:     issued.Value,
			Role:      string(jwttoken.RoleUser),
			ExpiresAt: issued.ExpiresAt,
			Claims: map[string]string{
				"sub": identityID.String(),
				"ck":  key.String(),
				"jti": issued.JTI,
			},
		}, *userJSON)
	case "admin":
		_ = adminCmd.Parse(os.Args[2:])
		svc := jwttoken.NewJWTService(*adminKey, defaultIssuer, defaultAudience, *adminTTL, *adminTTL)
		admin := id.AdminID(parseOrGenerateUUID(*adminID, "admin-id"))
		issued, err := svc.IssueAdminToken(context.Background(), admin)
		exitOnErr(err)
		emit(tokenOutput{
			Token:     issued.Value,
			Role:      string(jwttoken.RoleAdmin),
			ExpiresAt: issued.ExpiresAt,
			Claims: map[string]string{
				"sub": admin.String(),
				"jti": issued.JTI,
			},
		}, *adminJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate session tokens for a local consentvault

WARNING: Tokens are signed with the dev key by default and will NOT work in production.

Usage:
  tokengen <command> [flags]

Commands:
  user      Generate an end-user session token
  admin     Generate an administrator session token

Examples:
  tokengen user
  tokengen user -identity-id "550e8400-e29b-41d4-a716-446655440000" -consent-key K1abcdef
  tokengen admin -ttl 15m -json

Admin tokens minted here are not tied to a stored administrator. They pass the
auth middleware but logout will still revoke them.`)
}

func emit(out tokenOutput, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnErr(enc.Encode(out))
		return
	}
	fmt.Printf("Role:       %s\n", out.Role)
	fmt.Printf("Expires At: %s\n", out.ExpiresAt.Format(time.RFC3339))
	for k, v := range out.Claims {
		fmt.Printf("%-11s %s\n", k+":", v)
	}
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(out.Token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println(`  curl -H "Authorization: Bearer <token>" http://localhost:8080/api/...`)
}

func parseOrGenerateUUID(raw, flagName string) uuid.UUID {
	if raw == "" {
		return uuid.New()
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -%s: %v\n", flagName, err)
		os.Exit(1)
	}
	return parsed
}

func consentKeyOrGenerate(raw string) id.ConsentKey {
	if raw == "" {
		key, err := id.NewConsentKey()
		exitOnErr(err)
		return key
	}
	key, err := id.ParseConsentKey(raw)
	exitOnErr(err)
	return key
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
