package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v4"
	"github.com/spf13/cobra"
)

var (
	keyOutPrivate string
	keyOutPublic  string
	keyBits       int
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage Signing Keys",
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new RSA Key Pair",
	Long: `Generate an RSA key pair for badge signing.

Outputs:
  - Private key in JWK format (for signing assertions)
  - Public key in JWK format (published at the issuer URL for verification)`,
	Example: `  # Generate keys with default names
  badgeforge key gen

  # Generate keys with custom names
  badgeforge key gen --out-priv issuer.key.jwk --out-pub issuer.pub.jwk`,
	RunE: func(_ *cobra.Command, _ []string) error {
		// 1. Generate Key Pair
		priv, err := rsa.GenerateKey(rand.Reader, keyBits)
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}

		privJwk := jose.JSONWebKey{
			Key:       priv,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		}

		pubJwk := jose.JSONWebKey{
			Key:       priv.Public(),
			Algorithm: string(jose.RS256),
			Use:       "sig",
		}

		// 2. Save Private Key
		privBytes, err := json.MarshalIndent(privJwk, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(keyOutPrivate, privBytes, 0600); err != nil {
			return fmt.Errorf("failed to write private key: %w", err)
		}
		fmt.Printf("✅ Private Key saved to %s\n", keyOutPrivate)

		// 3. Save Public Key
		pubBytes, err := json.MarshalIndent(pubJwk, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(keyOutPublic, pubBytes, 0644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}
		fmt.Printf("✅ Public Key saved to %s\n", keyOutPublic)

		return nil
	},
}

// loadSigningKey loads an RSA private key from a JWK file. The key is loaded
// once at startup and injected read-only into the pipeline.
func loadSigningKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	var jwk jose.JSONWebKey
	if err := json.Unmarshal(keyData, &jwk); err != nil {
		return nil, fmt.Errorf("failed to parse private JWK: %w", err)
	}

	priv, ok := jwk.Key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key in file is not an RSA private key")
	}
	return priv, nil
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenCmd)

	keyGenCmd.Flags().StringVar(&keyOutPrivate, "out-priv", "private.jwk", "Output path for private key (JWK format)")
	keyGenCmd.Flags().StringVar(&keyOutPublic, "out-pub", "public.jwk", "Output path for public key (JWK format)")
	keyGenCmd.Flags().IntVar(&keyBits, "bits", 2048, "RSA key size in bits")
}
