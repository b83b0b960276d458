package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosen/salt-osx/internal/naprivs"
)

func newPrivsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privs",
		Short: "Convert between Remote Management privilege names and masks",
	}

	cmd.AddCommand(newPrivsEncodeCmd())
	cmd.AddCommand(newPrivsDecodeCmd())

	return cmd
}

func newPrivsEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <name>...",
		Short: "Pack privilege names into a signed 32-bit mask",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			for _, arg := range args {
				for _, name := range strings.Split(arg, ",") {
					if name != "" {
						names = append(names, name)
					}
				}
			}
			mask, err := naprivs.Encode(names, 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatInt(int64(mask), 10))
			return nil
		},
	}
}

func newPrivsDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <mask>",
		Short: "Unpack a signed 32-bit mask into privilege names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("mask %q is not a 32-bit integer", args[0])
			}
			names, residual := naprivs.Decode(int32(mask))
			out := strings.Join(names, ",")
			if out == "" {
				out = "none"
			}
			if residual != 0 {
				out = fmt.Sprintf("%s (residual %#x)", out, uint32(residual))
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
