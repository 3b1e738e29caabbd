package commands

import (
	"fmt"

	"github.com/marmos91/resolvefs/pkg/resolver"
	"github.com/spf13/cobra"
)

// Namespace maintenance commands. These operate through the store's builder
// surface, mainly useful with the badger backend where the namespace
// persists between invocations.

var (
	nsMode     uint32
	nsUID      uint32
	nsGID      uint32
	nsJunction bool
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory in the namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(args[0], func(env *environment, parent resolver.ObjectHandle, name resolver.Name) (resolver.ObjectHandle, error) {
			if nsJunction {
				return env.store.CreateJunction(parent, name, nsMode, nsUID, nsGID)
			}
			return env.store.MkDir(parent, name, nsMode, nsUID, nsGID)
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Create a regular file in the namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(args[0], func(env *environment, parent resolver.ObjectHandle, name resolver.Name) (resolver.ObjectHandle, error) {
			return env.store.CreateFile(parent, name, nsMode, nsUID, nsGID)
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove an object from the namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ctx := env.authContext(nsUID, nsGID)
		parent, name, err := env.resolveParent(ctx, args[0])
		if err != nil {
			return err
		}
		return env.store.Remove(parent, name)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{mkdirCmd, createCmd} {
		cmd.Flags().Uint32Var(&nsMode, "mode", 0o755, "Permission bits for the new object")
		cmd.Flags().Uint32Var(&nsUID, "uid", 0, "Owner user ID")
		cmd.Flags().Uint32Var(&nsGID, "gid", 0, "Owner group ID")
	}
	mkdirCmd.Flags().BoolVar(&nsJunction, "junction", false, "Create a junction instead of a plain directory")
	removeCmd.Flags().Uint32Var(&nsUID, "uid", 0, "Effective user ID for path resolution")
	removeCmd.Flags().Uint32Var(&nsGID, "gid", 0, "Effective group ID for path resolution")
}

func runCreate(path string, create func(*environment, resolver.ObjectHandle, resolver.Name) (resolver.ObjectHandle, error)) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := env.authContext(nsUID, nsGID)
	parent, name, err := env.resolveParent(ctx, path)
	if err != nil {
		return err
	}

	handle, err := create(env, parent, name)
	if err != nil {
		return err
	}
	fmt.Printf("handle: %s\n", handle)
	return nil
}
