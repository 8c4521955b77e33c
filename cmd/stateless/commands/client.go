package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	stateless "github.com/stateless-solutions/stateless-go"
)

// registerClientFlags adds the flags shared by every command that talks to an
// untrusted endpoint.
func registerClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc-url", "", "endpoint serving attested responses (required)")
	cmd.Flags().StringSlice("identity", nil, "trusted attester identity URL; repeat for each attester (required)")
	cmd.Flags().Int("min-attestations", 1, "number of valid attestations required per response")
	cmd.Flags().String("prover-url", "", "prover endpoint; enables state proof verification for state-reading calls")
	cmd.Flags().Bool("dedupe-identities", false, "count each identity at most once towards the attestation threshold")
}

// buildClient assembles a verifying client from flag and environment
// configuration.
func buildClient(opts ...stateless.Option) (*stateless.Client, error) {
	cfg := stateless.DefaultConfig()
	cfg.RPCURL = viper.GetString("rpc-url")
	cfg.Identities = viper.GetStringSlice("identity")
	cfg.MinimumAttestations = viper.GetInt("min-attestations")
	cfg.ProverURL = viper.GetString("prover-url")
	cfg.DeduplicateIdentities = viper.GetBool("dedupe-identities")

	opts = append([]stateless.Option{stateless.WithLogger(logger)}, opts...)
	return stateless.New(cfg, opts...)
}
