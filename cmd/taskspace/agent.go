package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/internal/tree"
)

var (
	agentName     string
	agentEmail    string
	agentPassword string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agents",
}

var agentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an agent",
	Long: `Register an agent. Without --password the password is prompted for.

Examples:
  taskspace agent create --name Alice --email alice@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pw := agentPassword
		if pw == "" {
			var err error
			if pw, err = promptPassword("Password", true); err != nil {
				return err
			}
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			a, err := e.tree.CreateAgent(ctx, tree.AgentInput{Name: agentName, Email: agentEmail, Password: pw})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), a, func() string {
				return fmt.Sprintf("created agent %s <%s> %s", a.Name, a.Email, a.ID)
			})
		})
	},
}

var agentLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check an agent's credentials and show its spaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pw := agentPassword
		if pw == "" {
			var err error
			if pw, err = promptPassword("Password", false); err != nil {
				return err
			}
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			sum, err := e.tree.Authenticate(ctx, agentEmail, pw)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), sum, func() string {
				out := fmt.Sprintf("logged in as %s <%s>", sum.Name, sum.Email)
				for _, sp := range sum.Spaces {
					out += fmt.Sprintf("\n  %s (%d checklists)", sp.SpaceTitle, len(sp.Checklists))
				}
				return out
			})
		})
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			var f store.AgentFilter
			if agentName != "" {
				f.Name = &agentName
			}
			agents, err := e.tree.ListAgents(ctx, f)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), agents, func() string {
				out := fmt.Sprintf("%d agents", len(agents))
				for _, a := range agents {
					out += fmt.Sprintf("\n  %s <%s> %d spaces", a.Name, a.Email, len(a.Spaces))
				}
				return out
			})
		})
	},
}

var agentDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an agent and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := e.tree.DeleteAgent(ctx, args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "agent and all associated data deleted")
			return nil
		})
	},
}

func init() {
	agentCreateCmd.Flags().StringVar(&agentName, "name", "", "Agent name")
	agentCreateCmd.Flags().StringVar(&agentEmail, "email", "", "Agent email")
	agentCreateCmd.Flags().StringVar(&agentPassword, "password", "", "Password (prompted when empty)")
	_ = agentCreateCmd.MarkFlagRequired("name")
	_ = agentCreateCmd.MarkFlagRequired("email")

	agentLoginCmd.Flags().StringVar(&agentEmail, "email", "", "Agent email")
	agentLoginCmd.Flags().StringVar(&agentPassword, "password", "", "Password (prompted when empty)")
	_ = agentLoginCmd.MarkFlagRequired("email")

	agentListCmd.Flags().StringVar(&agentName, "name", "", "Filter by name substring")

	agentCmd.AddCommand(agentCreateCmd, agentLoginCmd, agentListCmd, agentDeleteCmd)
}
