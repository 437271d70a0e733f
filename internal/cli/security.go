package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanjanarawald/CreditApprovalSystem/pkg/auth"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/tlsutil"
)

type tokenOptions struct {
	subject    string
	roles      []string
	ttl        time.Duration
	secret     string
	privateKey string
	issuer     string
}

// IssuedToken is the output of the token command.
type IssuedToken struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenCommand creates the token command, which signs a bearer token for
// calling creditd when auth is required.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the credit API",
		Long: `Issue a bearer token signed with --private-key (RS256) or with the shared
secret (HS256). The secret defaults to the configured JWT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.subject, "subject", "", "token subject (caller identity)")
	cmd.Flags().StringSliceVar(&opts.roles, "role", []string{auth.RoleAPIClient}, "role to grant (repeatable)")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "HMAC secret (overrides JWT_SECRET)")
	cmd.Flags().StringVar(&opts.privateKey, "private-key", "", "PEM RSA private key file")
	cmd.Flags().StringVar(&opts.issuer, "issuer", "", "issuer claim (overrides JWT_ISSUER)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runToken(rootOpts *RootOptions, opts *tokenOptions, cmd *cobra.Command) error {
	if opts.ttl <= 0 {
		return NewExitError(ExitUsage, "--ttl must be positive")
	}
	cfg, _, err := rootOpts.config(cmd)
	if err != nil {
		return err
	}

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		Expiration: opts.ttl,
	}
	if opts.secret != "" {
		jwtCfg.Secret = opts.secret
	}
	if opts.issuer != "" {
		jwtCfg.Issuer = opts.issuer
	}
	if opts.privateKey != "" {
		pem, err := auth.LoadKeyFromFile(opts.privateKey)
		if err != nil {
			return WrapExitError(ExitUsage, "private key", err)
		}
		jwtCfg.PrivateKeyPEM = string(pem)
	}

	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return WrapExitError(ExitUsage, "signing key", err)
	}
	token, err := svc.GenerateToken(opts.subject, opts.roles)
	if err != nil {
		return WrapExitError(ExitFailure, "sign token", err)
	}

	out := IssuedToken{
		Token:     token,
		Subject:   opts.subject,
		Roles:     opts.roles,
		ExpiresAt: time.Now().Add(opts.ttl).UTC().Truncate(time.Second),
	}
	return rootOpts.formatter(cmd).Print(out, func(w io.Writer) {
		fmt.Fprintln(w, out.Token)
	})
}

// GeneratedFiles lists what keys and certs wrote.
type GeneratedFiles struct {
	Files []string `json:"files"`
}

func (g GeneratedFiles) text(w io.Writer) {
	for _, f := range g.Files {
		fmt.Fprintf(w, "wrote %s\n", f)
	}
}

// NewKeysCommand creates the keys command, which writes an RSA key pair for
// RS256 tokens.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate an RSA key pair for signing tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, pub, err := auth.GenerateKeyPair()
			if err != nil {
				return WrapExitError(ExitFailure, "generate keys", err)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return WrapExitError(ExitFailure, "create output directory", err)
			}

			out := GeneratedFiles{Files: []string{
				filepath.Join(outDir, "jwt-private.pem"),
				filepath.Join(outDir, "jwt-public.pem"),
			}}
			if err := os.WriteFile(out.Files[0], priv, 0o600); err != nil {
				return WrapExitError(ExitFailure, "write private key", err)
			}
			if err := os.WriteFile(out.Files[1], pub, 0o644); err != nil { //nolint:gosec // public key
				return WrapExitError(ExitFailure, "write public key", err)
			}
			return rootOpts.formatter(cmd).Print(out, out.text)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")

	return cmd
}

// NewCertsCommand creates the certs command, which writes a development CA
// and server certificate.
func NewCertsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outDir   string
		hosts    []string
		validity time.Duration
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a self-signed CA and server certificate for local TLS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := tlsutil.Generate(outDir, tlsutil.CertOptions{Hosts: hosts, Validity: validity})
			if err != nil {
				return WrapExitError(ExitFailure, "generate certificates", err)
			}
			out := GeneratedFiles{Files: files.List()}
			return rootOpts.formatter(cmd).Print(out, out.text)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "certs", "output directory")
	cmd.Flags().StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS name or IP the certificate is valid for (repeatable)")
	cmd.Flags().DurationVar(&validity, "validity", 365*24*time.Hour, "server certificate lifetime")

	return cmd
}
