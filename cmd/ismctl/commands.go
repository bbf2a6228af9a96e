// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/blockfrost"
	"github.com/eigerco/hyperlane-monorepo-sub001/checkpoint"
	"github.com/eigerco/hyperlane-monorepo-sub001/config"
	"github.com/eigerco/hyperlane-monorepo-sub001/datum"
	"github.com/eigerco/hyperlane-monorepo-sub001/resolver"
)

type app struct {
	configPath   string
	printMetrics bool

	metrics  metric.Registry
	ism      *resolver.MultisigISM
	registry *resolver.Registry
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ismctl",
		Short:         "Query multisig ISM and recipient registry state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.printMetrics || a.metrics == nil {
				return nil
			}
			families, err := a.metrics.Gather()
			if err != nil {
				return err
			}
			return writeMetrics(cmd.ErrOrStderr(), families)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the configuration file")
	root.PersistentFlags().BoolVar(&a.printMetrics, "metrics", false, "print the collected metrics to stderr on exit")

	root.AddCommand(
		a.validatorsCommand(),
		a.registrationCommand(),
		a.registrationsCommand(),
		a.statusCommand(),
		digestCommand(),
	)
	return root
}

// load builds the resolvers from the configuration file.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	ismConfig, err := cfg.ISMConfig()
	if err != nil {
		return err
	}
	registryConfig, err := cfg.RegistryConfig()
	if err != nil {
		return err
	}

	logger := log.NewNoOpLogger()
	registry := metric.NewRegistry()
	client, err := blockfrost.New(logger, registry, cfg.MetricsNamespace, cfg.ChainConfig())
	if err != nil {
		return err
	}
	locator := cardano.NewLocator(logger, client)
	decoder, err := datum.NewDecoder(logger, registry, cfg.MetricsNamespace)
	if err != nil {
		return err
	}
	a.ism, err = resolver.NewMultisigISM(logger, locator, decoder, registry, cfg.MetricsNamespace, ismConfig)
	if err != nil {
		return err
	}
	a.registry, err = resolver.NewRegistry(logger, locator, decoder, registry, cfg.MetricsNamespace, registryConfig)
	if err != nil {
		return err
	}
	a.metrics = registry
	return nil
}

type validatorsOutput struct {
	Domain     uint32   `json:"domain"`
	Threshold  uint32   `json:"threshold"`
	Validators []string `json:"validators"`
}

func (a *app) validatorsCommand() *cobra.Command {
	var domain uint32
	cmd := &cobra.Command{
		Use:   "validators",
		Short: "Print the validators and threshold of an origin domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}
			validators, threshold, err := a.ism.GetValidatorsAndThreshold(cmd.Context(), domain)
			if err != nil {
				return err
			}
			out := validatorsOutput{
				Domain:     domain,
				Threshold:  threshold,
				Validators: make([]string, 0, len(validators)),
			}
			for _, validator := range validators {
				out.Validators = append(out.Validators, validator.String())
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().Uint32VarP(&domain, "domain", "d", 0, "origin domain")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func (a *app) registrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registration <script-hash>",
		Short: "Print the registration of a recipient script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptHash, err := cardano.ParseHash(args[0])
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			registration, err := a.registry.GetRegistration(cmd.Context(), scriptHash)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newRegistrationOutput(registration))
		},
	}
}

func (a *app) registrationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registrations",
		Short: "Print every registration in on-chain order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}
			registrations, err := a.registry.GetAllRegistrations(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]registrationOutput, 0, len(registrations))
			for _, registration := range registrations {
				out = append(out, newRegistrationOutput(registration))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

type statusOutput struct {
	Domains       []uint32 `json:"domains"`
	Registrations int      `json:"registrations"`
	RegistryOwner string   `json:"registryOwner"`
}

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Refresh both resources and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				return a.ism.Refresh(ctx)
			})
			eg.Go(func() error {
				return a.registry.Refresh(ctx)
			})
			if err := eg.Wait(); err != nil {
				return err
			}

			trustConfig, err := a.ism.Config(cmd.Context())
			if err != nil {
				return err
			}
			registrations, err := a.registry.GetAllRegistrations(cmd.Context())
			if err != nil {
				return err
			}
			owner, err := a.registry.Owner(cmd.Context())
			if err != nil {
				return err
			}
			domains := trustConfig.Domains()
			slices.Sort(domains)
			return printJSON(cmd.OutOrStdout(), statusOutput{
				Domains:       domains,
				Registrations: len(registrations),
				RegistryOwner: owner.String(),
			})
		},
	}
}

type digestFlags struct {
	hook       string
	domain     uint32
	root       string
	index      uint32
	messageID  string
	hashFamily string
}

func digestCommand() *cobra.Command {
	var flags digestFlags
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the digest validators sign for a checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.checkpoint()
			if err != nil {
				return err
			}
			family, err := checkpoint.ParseHashFamily(flags.hashFamily)
			if err != nil {
				return err
			}
			digest, err := checkpoint.SigningDigest(c, family)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "0x"+hex.EncodeToString(digest[:]))
			return err
		},
	}
	cmd.Flags().StringVar(&flags.hook, "hook", "", "hook address, 32 bytes hex")
	cmd.Flags().Uint32Var(&flags.domain, "domain", 0, "mailbox domain")
	cmd.Flags().StringVar(&flags.root, "root", "", "merkle root, 32 bytes hex")
	cmd.Flags().Uint32Var(&flags.index, "index", 0, "checkpoint index")
	cmd.Flags().StringVar(&flags.messageID, "message-id", "", "message id, 32 bytes hex")
	cmd.Flags().StringVar(&flags.hashFamily, "hash-family", config.DefaultHashFamily, "keccak256 or blake2b256")
	for _, name := range []string{"hook", "domain", "root", "index", "message-id"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (f digestFlags) checkpoint() (checkpoint.CheckpointWithMessage, error) {
	hook, err := parseID("hook", f.hook)
	if err != nil {
		return checkpoint.CheckpointWithMessage{}, err
	}
	root, err := parseID("root", f.root)
	if err != nil {
		return checkpoint.CheckpointWithMessage{}, err
	}
	messageID, err := parseID("message-id", f.messageID)
	if err != nil {
		return checkpoint.CheckpointWithMessage{}, err
	}
	return checkpoint.CheckpointWithMessage{
		Checkpoint: checkpoint.Checkpoint{
			HookAddress:   hook,
			MailboxDomain: f.domain,
			Root:          root,
			Index:         f.index,
		},
		MessageID: messageID,
	}, nil
}

func parseID(name, s string) (ids.ID, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return ids.Empty, fmt.Errorf("%s: %w", name, err)
	}
	id, err := ids.ToID(b)
	if err != nil {
		return ids.Empty, fmt.Errorf("%s: %w", name, err)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
