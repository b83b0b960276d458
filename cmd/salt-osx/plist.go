package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

func newPlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plist",
		Short: "Read and write single keys in property list files",
	}

	cmd.AddCommand(newPlistReadCmd())
	cmd.AddCommand(newPlistWriteCmd())
	cmd.AddCommand(newPlistDeleteCmd())

	return cmd
}

func newPlistReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file> <keypath>",
		Short: "Print the value at a colon-separated key path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := plist.LoadStore(args[0])
			if err != nil {
				return err
			}
			node, err := plist.ReadKey(store.Root(), plist.SplitKeyPath(args[1]))
			if err != nil {
				return err
			}
			value, err := plist.FromNative(node)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value.String())
			return nil
		},
	}
}

func newPlistWriteCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "write <file> <keypath> <value>",
		Short: "Set the value at a colon-separated key path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := plist.CoerceString(model.Tag(typeName), args[2])
			if err != nil {
				return err
			}
			node, err := plist.ToNative(value)
			if err != nil {
				return err
			}
			store, err := plist.LoadStore(args[0])
			if err != nil {
				return err
			}
			if err := plist.WriteKey(store.Root(), plist.SplitKeyPath(args[1]), node); err != nil {
				return err
			}
			return store.Save()
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "string", "Value type: bool, int, float or string")

	return cmd
}

func newPlistDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file> <keypath>",
		Short: "Remove the key at a colon-separated key path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := plist.LoadStore(args[0])
			if err != nil {
				return err
			}
			if err := plist.DeleteKey(store.Root(), plist.SplitKeyPath(args[1])); err != nil {
				return err
			}
			return store.Save()
		},
	}
}
