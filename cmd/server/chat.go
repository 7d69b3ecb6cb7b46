package main

import (
	"encoding/json"
	"strings"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/chat"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	chatProject string
	chatFile    string
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Run a single chat turn and print both messages as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		ctx := cmd.Context()
		turn := app.chat.HandleMessage(ctx, chat.Input{
			Content:     strings.Join(args, " "),
			ProjectID:   chatProject,
			CurrentFile: chatFile,
		})

		projectID := chatProject
		if a := turn.Assistant.Action; a != nil && a.ProjectID != "" {
			projectID = a.ProjectID
		}
		if projectID != "" {
			for _, msg := range turn.Messages() {
				if err := app.store.SaveMessage(ctx, projectID, msg); err != nil {
					app.logger.Warn("Failed to save message", zap.Error(err), zap.String("project_id", projectID))
				}
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(turn.Messages())
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatProject, "project", "p", "", "active project id")
	chatCmd.Flags().StringVar(&chatFile, "file", "", "file currently open in the editor")
}
