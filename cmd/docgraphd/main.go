// Command docgraphd is a small operator CLI around the docgraph library. It
// is demonstration scaffolding around the library, not part of its public
// contract: a real embedder drives a Document directly, in-process.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/docgraph/docgraph"
	"github.com/docgraph/docgraph/docconfig"
	"github.com/docgraph/docgraph/event"
	"github.com/docgraph/docgraph/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "docgraphd",
	Short: "operator CLI for inspecting and serving a reactive document graph",
	Long: `docgraphd is a small host loop around the docgraph library.

It is not part of the library's contract - it exists to demonstrate the
"external session loop" the document graph itself assumes but never
provides: something that loads a document, fires its session callbacks on
a real clock, and ships patches somewhere as they are produced.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.docgraphd.yaml)")
	rootCmd.AddCommand(serveCmd, inspectCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docgraphd")
	}
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("using config file:", viper.ConfigFileUsed())
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "load a document and drive its session callbacks on a real clock",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "load a document and print its roots and model counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

// loadDocument reads path as either the docgraph JSON wire format or, if it
// parses as YAML front matter (a top-level "template" document shape used
// by operators hand-authoring fixtures), converts that to the JSON form
// first. The JSON case is tried first since valid JSON is also valid YAML
// and would otherwise always match.
func loadDocument(path string) (*docgraph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docgraphd: read %s: %w", path, err)
	}

	doc, jsonErr := docgraph.FromJSON(data)
	if jsonErr == nil {
		return doc, nil
	}

	var template struct {
		Title string           `yaml:"title"`
		Roots []map[string]any `yaml:"roots"`
	}
	if yamlErr := yaml.Unmarshal(data, &template); yamlErr != nil {
		return nil, fmt.Errorf("docgraphd: %s is neither valid document JSON (%v) nor a YAML template (%w)", path, jsonErr, yamlErr)
	}

	converted := map[string]any{
		"title":   template.Title,
		"version": "template",
		"roots": map[string]any{
			"root_ids":   rootIDsFromTemplate(template.Roots),
			"references": template.Roots,
		},
	}
	jsonBytes, err := yamlTemplateToJSON(converted)
	if err != nil {
		return nil, err
	}
	return docgraph.FromJSON(jsonBytes)
}

func rootIDsFromTemplate(roots []map[string]any) []string {
	ids := make([]string, 0, len(roots))
	for _, r := range roots {
		if id, ok := r["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func yamlTemplateToJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	cfg := docconfig.New("DOCGRAPHD")
	defaultPeriod := cfg.GetDuration("default_callback_period", 30*time.Second)

	fmt.Printf("title: %s\n", doc.Title())
	fmt.Printf("roots: %d\n", len(doc.RootIDs()))
	fmt.Printf("models: %d\n", len(doc.AllModels()))
	for _, id := range doc.RootIDs() {
		m, _ := doc.GetModelByID(id)
		fmt.Printf("  root %s (%s)\n", m.ID(), m.TypeTag())
	}
	for _, h := range doc.SessionCallbacks() {
		period := h.Period()
		if period == 0 {
			period = defaultPeriod
		}
		fmt.Printf("  callback %s: %s, every %s\n", h.ID(), h.Kind(), humanize.RelTime(time.Now(), time.Now().Add(period), "", ""))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	logger := logging.Wrap(logging.New(logging.DefaultConfig()))
	doc.SetLogger(logger)

	var pending []event.Event
	doc.OnChange("docgraphd.serve", func(e event.Event) {
		pending = append(pending, e)
	})

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	log.Printf("docgraphd: serving %q with %d root(s)", doc.Title(), len(doc.RootIDs()))
	for {
		select {
		case <-ticker.C:
			for _, h := range doc.SessionCallbacks() {
				if h.Kind().String() == "periodic" {
					h.Fire()
				}
			}
			if len(pending) > 0 {
				patchBytes, err := doc.CreatePatch(pending)
				if err != nil {
					log.Printf("docgraphd: patch generation failed: %v", err)
				} else {
					fmt.Println(string(patchBytes))
				}
				pending = nil
			}
		case <-quit:
			log.Println("docgraphd: shutting down")
			return nil
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
