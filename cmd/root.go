/*
Package cmd implements the command-line interface for the CPF policy
explainer: asking questions, serving the HTTP API, running the retirement
simulator and building the knowledge graph.
*/
package cmd

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/cpf-explainer/pkg/config"
	"github.com/theapemachine/cpf-explainer/pkg/logging"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
This will be written to the home directory of the user running the service,
which allows a developer to easily override the config file.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	projectName = "cpf-explainer"
	cfgFile     string
	cfg         config.Config

	rootCmd = &cobra.Command{
		Use:   projectName,
		Short: "Answer questions about Singapore CPF retirement policy",
		Long:  longRoot,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yml",
		"config file (default is $HOME/."+projectName+"/config.yml)",
	)
}

/*
initConfig loads .env if present, writes the default config file to the
user's home directory if it doesn't exist, reads it, and starts logging.
Environment variables override the file.
*/
func initConfig() {
	var err error

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to load .env", "error", err)
	}

	if err = writeConfig(); err != nil {
		log.Fatal("failed to write config", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	home, _ := os.UserHomeDir()
	viper.AddConfigPath(home + "/." + projectName)
	config.BindEnv(viper.GetViper())

	if err = viper.ReadInConfig(); err != nil {
		log.Fatal("failed to read config", "error", err)
	}

	cfg = config.Load(viper.GetViper())

	if err = logging.Init(cfg.Log); err != nil {
		log.Fatal("failed to initialize logging", "error", err)
	}
}

func writeConfig() (err error) {
	var (
		home, _ = os.UserHomeDir()
		fh      fs.File
		buf     bytes.Buffer
	)

	configDir := home + "/." + projectName

	if !CheckFileExists(configDir) {
		if err = os.MkdirAll(configDir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	fullPath := configDir + "/" + cfgFile

	if CheckFileExists(fullPath) {
		return nil
	}

	if fh, err = embedded.Open("cfg/" + cfgFile); err != nil {
		return fmt.Errorf("failed to open embedded config file: %w", err)
	}

	defer fh.Close()

	if _, err = io.Copy(&buf, fh); err != nil {
		return fmt.Errorf("failed to read embedded config file: %w", err)
	}

	if err = os.WriteFile(fullPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Info("wrote config file", "path", fullPath)

	return nil
}

func CheckFileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !errors.Is(err, os.ErrNotExist)
}

var longRoot = `
cpf-explainer answers questions about Singapore's CPF retirement policies from a
knowledge graph of official pages, citing the pages it used, and falls back to a
web search when the graph has nothing relevant.

It also carries a rule based retirement simulator and the tooling to build the
knowledge graph from scraped pages.
`
