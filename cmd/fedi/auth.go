package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmerrifield20/fedikit/pkg/apps"
	"github.com/jmerrifield20/fedikit/pkg/client"
)

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(authorizeURLCmd)
	rootCmd.AddCommand(exchangeCmd)
}

// bundle is the config-file shape of a credential bundle.
type bundle struct {
	Base         string `yaml:"base"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Redirect     string `yaml:"redirect"`
	Scopes       string `yaml:"scopes,omitempty"`
	Token        string `yaml:"token,omitempty"`
}

func printBundle(cmd *cobra.Command, data client.Data, scopes apps.Scope) error {
	out, err := yaml.Marshal(bundle{
		Base:         data.Base,
		ClientID:     data.ClientID,
		ClientSecret: data.ClientSecret,
		Redirect:     data.Redirect,
		Scopes:       scopes.String(),
		Token:        data.Token,
	})
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// registration restores the app registration recorded in the config.
func registration() (*client.Registration, apps.Scope, error) {
	if baseURL == "" {
		return nil, 0, fmt.Errorf("no server configured: pass --base or set base in the config")
	}
	scopes, err := apps.ParseScope(viper.GetString("scopes"))
	if err != nil {
		return nil, 0, err
	}
	reg, err := client.Registered(baseURL,
		viper.GetString("client_id"),
		viper.GetString("client_secret"),
		viper.GetString("redirect"),
		scopes,
		clientOptions()...,
	)
	return reg, scopes, err
}

// ── register ─────────────────────────────────────────────────────────────────

var (
	regName     string
	regRedirect string
	regScopes   string
	regWebsite  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register this client as an app on the server",
	Long: `register creates an OAuth app on the server and prints the client
credentials together with the authorize URL. Add the printed values to the
config file, then run "fedi exchange <code>".`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&regName, "name", "fedi", "app name shown to users")
	registerCmd.Flags().StringVar(&regRedirect, "redirect", apps.OOBRedirect, "redirect URI")
	registerCmd.Flags().StringVar(&regScopes, "scopes", "read", `requested scopes, e.g. "read write"`)
	registerCmd.Flags().StringVar(&regWebsite, "website", "", "app website")
}

func runRegister(cmd *cobra.Command, args []string) error {
	if baseURL == "" {
		return fmt.Errorf("--base is required")
	}
	scopes, err := apps.ParseScope(regScopes)
	if err != nil {
		return err
	}

	reg, err := client.NewRegistration(baseURL, clientOptions()...)
	if err != nil {
		return err
	}
	if err := reg.Register(commandContext(cmd), apps.AppBuilder{
		ClientName:   regName,
		RedirectURIs: regRedirect,
		Scopes:       scopes,
		Website:      regWebsite,
	}); err != nil {
		return fmt.Errorf("register app: %w", err)
	}

	authURL, err := reg.AuthorizeURL()
	if err != nil {
		return err
	}
	if err := printBundle(cmd, reg.Data(), scopes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\nOpen this URL to authorize the app:\n\n  %s\n\n", authURL)
	return nil
}

// ── authorize-url ────────────────────────────────────────────────────────────

var authorizeURLCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Print the authorization page URL for the configured app",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := registration()
		if err != nil {
			return err
		}
		authURL, err := reg.AuthorizeURL()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), authURL)
		return nil
	},
}

// ── exchange ─────────────────────────────────────────────────────────────────

var exchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code for an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, scopes, err := registration()
		if err != nil {
			return err
		}
		c, err := reg.Exchange(commandContext(cmd), args[0])
		if err != nil {
			return fmt.Errorf("exchange code: %w", err)
		}
		return printBundle(cmd, c.Data(), scopes)
	},
}
