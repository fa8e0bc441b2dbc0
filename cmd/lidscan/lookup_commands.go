package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lidscan/internal/jid"
)

type lookupOutput struct {
	Phone string `json:"phone"`
	LID   string `json:"lid,omitempty"`
	Found bool   `json:"found"`
}

type verifyOutput struct {
	BotPhone string `json:"bot_phone"`
	Sender   string `json:"sender"`
	Owner    bool   `json:"owner"`
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <phone>",
		Short: "Print the LID recorded for a bot phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			lid, found := snap.LIDFor(args[0])
			out := lookupOutput{Phone: jid.Normalize(args[0]), LID: lid, Found: found}
			if ctx.jsonMode() {
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else if found {
				fmt.Fprintln(cmd.OutOrStdout(), lid)
			}
			if !found {
				return &exitCodeError{code: 1, err: fmt.Errorf("no LID recorded for %s", args[0])}
			}
			return nil
		},
	}
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <bot-phone> <sender>",
		Short: "Check whether a sender address is the bot's own LID",
		Long:  "Exits 0 when sender matches the LID recorded for bot-phone and 1 otherwise.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			owner := snap.IsOwner(args[0], args[1])
			if ctx.jsonMode() {
				if err := writeJSON(cmd, verifyOutput{BotPhone: args[0], Sender: args[1], Owner: owner}); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "owner: %s\n", yesNo(owner))
			}
			if !owner {
				return &exitCodeError{code: 1}
			}
			return nil
		},
	}
}
