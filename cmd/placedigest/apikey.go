package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage the Gemini API key",
}

var apikeySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the Gemini API key",
	Long:  "Encrypts the key and stores it for the user. With no argument, reads the key from stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAPIKeySet,
}

var apikeyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is configured",
	RunE:  runAPIKeyStatus,
}

var apikeyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE:  runAPIKeyClear,
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
	apikeyCmd.AddCommand(apikeySetCmd)
	apikeyCmd.AddCommand(apikeyStatusCmd)
	apikeyCmd.AddCommand(apikeyClearCmd)
}

func runAPIKeySet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Print("Gemini API key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key must not be empty")
	}

	sqlStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	if err := sqlStore.SetAPIKey(resolveUser(cfg), key); err != nil {
		return err
	}
	fmt.Println("API key stored.")
	return nil
}

func runAPIKeyStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	has, err := sqlStore.HasAPIKey(resolveUser(cfg))
	if err != nil {
		return err
	}
	if has {
		fmt.Println("An API key is configured.")
	} else {
		fmt.Println("No API key configured. Set one with `placedigest apikey set`.")
	}
	return nil
}

func runAPIKeyClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	if err := sqlStore.ClearAPIKey(resolveUser(cfg)); err != nil {
		return err
	}
	fmt.Println("API key removed.")
	return nil
}
