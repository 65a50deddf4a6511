package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/validators"
	"github.com/spf13/cobra"
)

var groupReq models.CreateGroupRequest

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCreateCmd)

	groupCreateCmd.Flags().StringVar(&groupReq.Title, "title", "", "Group title")
	groupCreateCmd.Flags().StringVar(&groupReq.Slug, "slug", "", "Group address, used in /group/<slug>/")
	groupCreateCmd.Flags().StringVar(&groupReq.Description, "description", "", "Group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	Args:  cobra.NoArgs,
	RunE:  createGroup,
}

func createGroup(cmd *cobra.Command, args []string) error {
	groupReq.Title = strings.TrimSpace(groupReq.Title)
	groupReq.Slug = strings.TrimSpace(groupReq.Slug)
	if err := validators.NewValidator().Validate(groupReq); err != nil {
		var problems []string
		for field, msg := range validators.FieldErrors(err) {
			problems = append(problems, "--"+field+": "+msg)
		}
		sort.Strings(problems)
		return fmt.Errorf("invalid group: %s", strings.Join(problems, "; "))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	group := &models.Group{
		Title:       groupReq.Title,
		Slug:        groupReq.Slug,
		Description: groupReq.Description,
	}
	if err := repositories.NewPostgresGroupRepository(db.Gorm).CreateGroup(cmd.Context(), group); err != nil {
		return err
	}
	fmt.Printf("Created %s (/group/%s/)\n", group, group.Slug)
	return nil
}
