package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Na-Varte-5/house-management-sub001/internal/platform/config"
	"github.com/Na-Varte-5/house-management-sub001/internal/platform/httpserver"
)

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token signed with JWT_SECRET",
		RunE:  runToken,
	}
	cmd.Flags().String("user", "", "Subject user id")
	cmd.Flags().StringSlice("roles", nil, "Roles, e.g. --roles Admin,Homeowner")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")
	roles, _ := cmd.Flags().GetStringSlice("roles")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	if strings.TrimSpace(userID) == "" {
		return errors.New("--user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	token, err := httpserver.NewTokenVerifier(cfg.JWTSecret).Issue(userID, roles, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
