package document

import (
	"os"

	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/registry"
	"github.com/ValentinKolb/hKV/lib/repo/container"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
)

var (
	log = logging.GetLogger("cli")

	conf util.Config
	doc  util.Document
	view *container.ReadWrite

	// sources holds the other documents loaded by merge, replace and diff
	sources = registry.New()

	// Commands are the document commands, added to the root command by the cmd package
	Commands = []*cobra.Command{
		getCmd, hasCmd, keysCmd, valuesCmd,
		setCmd, unsetCmd, mergeCmd, replaceCmd,
		queryCmd, evalCmd, patchCmd, diffCmd,
		statsCmd, convertCmd,
	}
)

func init() {
	for _, cmd := range Commands {
		cmd.PreRunE = loadDocument
		cmd.PostRunE = printMetrics
	}

	// enumeration flags
	for _, cmd := range []*cobra.Command{keysCmd, valuesCmd} {
		cmd.Flags().String("offset", "", util.WrapString("Path to start the enumeration at"))
		cmd.Flags().Bool("trim-prefix", true, util.WrapString("Strip the offset from the returned keys"))
		cmd.Flags().Int("max-depth", 0, util.WrapString("Number of levels to descend, 0 is unlimited"))
	}
	valuesCmd.Flags().Bool("numeric-keys", false, util.WrapString("Flatten mappings with numeric keys instead of returning them as a whole"))

	getCmd.Flags().String("default", "", util.WrapString("Value printed if the key does not exist"))

	// combination flags
	for _, cmd := range []*cobra.Command{mergeCmd, replaceCmd} {
		cmd.Flags().String("offset", "", util.WrapString("Path of the mapping to combine the source with"))
		cmd.Flags().Bool("override", true, util.WrapString("Whether the source takes precedence over the document"))
		cmd.Flags().Bool("recursive", true, util.WrapString("Whether nested mappings are combined key by key"))
	}
	mergeCmd.Flags().String("collision", "accumulate", util.WrapString("What to do with scalars present on both sides (accumulate, override)"))

	patchCmd.Flags().Bool("merge", false, util.WrapString("Treat the file as a json merge patch (RFC 7386)"))
	diffCmd.Flags().Bool("context", false, util.WrapString("Also print the lines both documents share"))

	convertCmd.Flags().String("to", "", util.WrapString("Target format (json, yaml, hcl), defaults to --output"))
}

// loadDocument binds the flags and reads the document every command operates on
func loadDocument(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf = util.GetConfig()
	if err := logging.Init(conf.LogLevel); err != nil {
		return err
	}

	var err error
	doc, err = util.LoadDocument(conf, cmd.InOrStdin())
	if err != nil {
		return err
	}
	view = container.NewReadWrite(doc, container.WithName(cmd.Name()))
	log.Debugf("loaded document from %s (%s, %d top-level keys)", conf.File, conf.Format, len(doc.ToArray()))
	return nil
}

// printMetrics writes the counters of the command to stderr if requested
func printMetrics(_ *cobra.Command, _ []string) error {
	if !conf.Metrics {
		return nil
	}
	if view != nil {
		view.WritePrometheus(os.Stderr)
	}
	if sources.Len() > 0 {
		gometrics.WriteOnce(sources.Metrics(), os.Stderr)
	}
	return nil
}
