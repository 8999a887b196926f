package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-i2p/weblog/logger"
	feedsigner "github.com/go-i2p/weblog/signer"
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign the built XML feeds into su3 containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		outs, err := Sign(c.BuildDir)
		for _, out := range outs {
			fmt.Fprintln(cmd.OutOrStdout(), "signed", out)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().String("signerid", "null@example.i2p", "ID to use when signing the feeds")
	signCmd.Flags().String("signingkey", "signing_key.pem", "PEM, JKS or PKCS#12 file holding the RSA signing key")
	signCmd.Flags().String("keystorepass", "", "keystore password (default "+feedsigner.DefaultKeystorePassword+")")
	signCmd.Flags().String("keypass", "", "JKS key entry password")
	signCmd.Flags().StringSlice("verifycerts", nil, "PEM certificates to verify the signed feeds against")
}

// Sign loads the configured key, signs every XML feed under buildDir and,
// when certificates are configured, verifies each container it wrote.
func Sign(buildDir string) ([]string, error) {
	key, err := feedsigner.LoadKey(c.SigningKey, c.KeystorePass, c.KeyPass, c.SignerId)
	if err != nil {
		return nil, err
	}
	fs := feedsigner.FeedSigner{SignerID: c.SignerId, SigningKey: key}
	outs, err := fs.SignBuild(buildDir)
	if err != nil {
		return outs, err
	}
	if len(c.VerifyCerts) == 0 {
		return outs, nil
	}
	certs, err := feedsigner.LoadCertificates(c.VerifyCerts)
	if err != nil {
		return outs, err
	}
	for _, out := range outs {
		if _, err := feedsigner.VerifyFile(out, certs); err != nil {
			return outs, fmt.Errorf("Sign: %s: %w", out, err)
		}
		logger.InfoWithFields(logger.Log, "verified", logger.Fields{"file": out})
	}
	return outs, nil
}
