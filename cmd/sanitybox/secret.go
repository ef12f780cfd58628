package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"sanitybox/internal/security"
	"sanitybox/internal/webhook"

	"github.com/spf13/cobra"
)

var (
	signSecret    string
	signTimestamp string
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage webhook secrets",
	Long:  `Generate webhook secrets and sign payloads for testing deliveries.`,
}

var secretGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a strong webhook secret",
	Long: `Generate a random secret suitable for the webhook_secret field in the
project configuration.`,
	RunE: runSecretGenerate,
}

var secretSignCmd = &cobra.Command{
	Use:   "sign <file>",
	Short: "Sign a payload for a test delivery",
	Long: `Compute the signature header for a payload read from a file, or from
stdin when the file is "-". The output is the full header value, ready
for a curl test against a running receiver:

  sanitybox secret sign payload.json --secret "$SECRET"`,
	Args: cobra.ExactArgs(1),
	RunE: runSecretSign,
}

func init() {
	secretSignCmd.Flags().StringVarP(&signSecret, "secret", "s", os.Getenv("SANITYBOX_WEBHOOK_SECRET"), "Webhook secret to sign with")
	secretSignCmd.Flags().StringVarP(&signTimestamp, "timestamp", "t", "", "Millisecond epoch timestamp (defaults to now)")

	secretCmd.AddCommand(secretGenerateCmd)
	secretCmd.AddCommand(secretSignCmd)
}

func runSecretGenerate(cmd *cobra.Command, args []string) error {
	secret, err := security.GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}
	fmt.Println(secret)
	return nil
}

func runSecretSign(cmd *cobra.Command, args []string) error {
	if signSecret == "" {
		return fmt.Errorf("a secret is required, use --secret or SANITYBOX_WEBHOOK_SECRET")
	}

	var body []byte
	var err error
	if args[0] == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	timestamp := signTimestamp
	if timestamp == "" {
		timestamp = strconv.FormatInt(time.Now().UnixMilli(), 10)
	} else if _, err := strconv.ParseInt(timestamp, 10, 64); err != nil {
		return fmt.Errorf("timestamp must be a millisecond epoch integer: %w", err)
	}

	signature := webhook.Sign(string(body), timestamp, signSecret)
	fmt.Printf("%s: %s\n", webhook.SignatureHeaderName, webhook.BuildSignatureHeader(timestamp, signature))
	return nil
}
