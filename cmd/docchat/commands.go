package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// --- upload ---

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document or image for the next question",
	Long: `Upload a file to the running server. Extracted content becomes the
context for the next question, in the browser or via "docchat ask".

Examples:
  docchat upload report.pdf
  docchat upload slides.pptx
  docchat upload photo.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.postFile(cmd.Context(), "/api/upload", path, data)
		if err != nil {
			return err
		}

		var result struct {
			Filename string `json:"filename"`
			Kind     string `json:"kind"`
			Chars    int    `json:"chars"`
			Width    int    `json:"width"`
			Height   int    `json:"height"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Kind == "image" {
			printSuccess("Attached %s (%dx%d image)", result.Filename, result.Width, result.Height)
		} else {
			printSuccess("Extracted %d characters from %s", result.Chars, result.Filename)
		}
		printStep("Your next question will use it as context")
		return nil
	},
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question in the live conversation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := args[0]
		for _, a := range args[1:] {
			question += " " + a
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/chat", map[string]string{"message": question})
		if err != nil {
			return err
		}

		var turn struct {
			Content string `json:"content"`
		}
		if err := decodeJSON(resp, &turn); err != nil {
			return err
		}

		fmt.Println(turn.Content)
		return nil
	},
}

// --- transcript ---

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Print the current conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/transcript")
		if err != nil {
			return err
		}

		var result struct {
			Turns []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"turns"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Turns) == 0 {
			printStep("No conversation yet")
			return nil
		}
		for _, t := range result.Turns {
			label := colorize(colorCyan, "you")
			if t.Role == "assistant" {
				label = colorize(colorGreen, "gemini")
			}
			fmt.Printf("%s: %s\n\n", label, t.Content)
		}
		return nil
	},
}

// --- reset ---

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the current conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/api/transcript")
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Conversation cleared")
		return nil
	},
}
