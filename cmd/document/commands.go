package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/diff"
	"github.com/ValentinKolb/hKV/lib/eval"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/patch"
	"github.com/ValentinKolb/hKV/lib/query"
	"github.com/ValentinKolb/hKV/lib/repo"
	"github.com/ValentinKolb/hKV/lib/repo/container"
	"github.com/ValentinKolb/hKV/lib/stats"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [path]",
		Short: "Prints the value at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var def []any
			if cmd.Flags().Changed("default") {
				def = append(def, util.ParseValue(viper.GetString("default")))
			}
			return runGet(cmd.OutOrStdout(), view.Readonly, args[0], def...)
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [path]",
		Short: "Prints whether a path exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), view.Has(args[0]))
			return err
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Prints the paths of the document, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeys(cmd.OutOrStdout(), view.Readonly, enumOptions(cmd)...)
		},
	}
	valuesCmd = &cobra.Command{
		Use:   "values",
		Short: "Prints the path value pairs of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := enumOptions(cmd)
			opts = append(opts, repo.WithNumericKeys(viper.GetBool("numeric-keys")))
			return util.WriteValue(cmd.OutOrStdout(), conf, view.GetValues(opts...))
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [path] [value]",
		Short: "Sets the value at a path and prints the document",
		Long:  "Sets the value at a path and prints the document. Values that are valid json (numbers, booleans, objects, ...) are decoded, anything else is stored as a string. Setting null removes the path.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view.Set(args[0], util.ParseValue(args[1]))
			return util.WriteDocument(cmd.OutOrStdout(), conf, doc)
		},
	}
	unsetCmd = &cobra.Command{
		Use:   "unset [path]...",
		Short: "Removes paths and prints the document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				doc.Unset(path)
			}
			return util.WriteDocument(cmd.OutOrStdout(), conf, doc)
		},
	}
	mergeCmd = &cobra.Command{
		Use:   "merge [file]...",
		Short: "Merges other documents into the document and prints the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := combineOptions(true)
			if err != nil {
				return err
			}
			return runCombine(cmd.OutOrStdout(), args, func(source util.Document) {
				doc.Merge(source, opts...)
			})
		},
	}
	replaceCmd = &cobra.Command{
		Use:   "replace [file]...",
		Short: "Replaces keys of the document with the ones of other documents and prints the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := combineOptions(false)
			if err != nil {
				return err
			}
			return runCombine(cmd.OutOrStdout(), args, func(source util.Document) {
				doc.Replace(source, opts...)
			})
		},
	}
	queryCmd = &cobra.Command{
		Use:   "query [jsonpath]",
		Short: "Prints the values matched by a JSONPath expression, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.OutOrStdout(), view.Readonly, args[0])
		},
	}
	evalCmd = &cobra.Command{
		Use:   "eval [expression]",
		Short: "Evaluates an expression against the document",
		Long:  `Evaluates an expr-lang expression against the document. Top-level keys are variables, get(path, default?), has(path) and keys(offset?) resolve paths. Example: hkv eval 'get("db.port", 5432) > 1024'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := eval.New().Evaluate(view.Readonly, args[0])
			if err != nil {
				return err
			}
			return util.WriteValue(cmd.OutOrStdout(), conf, result)
		},
	}
	patchCmd = &cobra.Command{
		Use:   "patch [file]",
		Short: "Applies a json patch (RFC 6902) and prints the document",
		Long:  "Applies a json patch (RFC 6902) read from a file and prints the document. With --merge the file is a json merge patch (RFC 7386) instead. The patch is always json, regardless of --format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			patched, err := runPatch(ops, viper.GetBool("merge"))
			if err != nil {
				return err
			}
			return util.WriteDocument(cmd.OutOrStdout(), conf, patched)
		},
	}
	diffCmd = &cobra.Command{
		Use:   "diff [file]",
		Short: "Prints the leaves that differ between the document and another one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			other, err := loadSource(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return runDiff(out, other, viper.GetBool("context"), isTerminal(out))
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints the shape of the document (depth, branches, leaves, value sizes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return util.WriteValue(cmd.OutOrStdout(), conf, stats.Describe(documentNode(doc)).Values())
		},
	}
	convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Prints the document in another format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := conf
			if to := viper.GetString("to"); to != "" {
				out.Output = to
			}
			return util.WriteDocument(cmd.OutOrStdout(), out, doc)
		},
	}
)

// --------------------------------------------------------------------------
// Command implementations
// --------------------------------------------------------------------------

func runGet(w io.Writer, r *container.Readonly, path string, def ...any) error {
	value := r.Get(path, def...)
	if value == nil {
		return fmt.Errorf("path %q not found", path)
	}
	return util.WriteValue(w, conf, value)
}

func runKeys(w io.Writer, r *container.Readonly, opts ...repo.Option) error {
	keys := r.GetKeys(opts...)
	if len(keys) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(keys, "\n"))
	return err
}

func runQuery(w io.Writer, r *container.Readonly, expression string) error {
	results, err := query.Select(r, expression)
	if err != nil {
		return err
	}
	for _, result := range results {
		if err := util.WriteValue(w, conf, result); err != nil {
			return err
		}
	}
	return nil
}

// runCombine loads every file in the document format and applies fn to it
func runCombine(w io.Writer, files []string, fn func(source util.Document)) error {
	for _, file := range files {
		source, err := loadSource(file)
		if err != nil {
			return err
		}
		fn(source)
	}
	return util.WriteDocument(w, conf, doc)
}

// loadSource loads another document in the configured format. Each file is
// read once, later requests are served from the sources registry.
func loadSource(file string) (util.Document, error) {
	if r, ok := sources.Lookup(file); ok {
		if d, ok := r.(util.Document); ok {
			return d, nil
		}
	}

	sourceConf := conf
	sourceConf.File = file
	source, err := util.LoadDocument(sourceConf, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}
	if err := sources.Register(file, source); err != nil {
		return nil, err
	}
	return source, nil
}

// runPatch applies a json patch or merge patch to the document and returns
// the result as a new document
func runPatch(ops []byte, merge bool) (util.Document, error) {
	apply := patch.Apply
	if merge {
		apply = patch.Merge
	}
	root, err := apply(documentNode(doc), ops)
	if err != nil {
		return nil, err
	}

	// decoding the json form keeps the key order for both repository kinds
	b, err := codec.NewJSONCodec().Encode(root)
	if err != nil {
		return nil, err
	}
	jsonConf := conf
	jsonConf.Format = "json"
	return util.DecodeDocument(jsonConf, b)
}

func runDiff(w io.Writer, other repo.Arrayable, context, colored bool) error {
	lines := diff.Documents(documentNode(doc), documentNode(other), separator())
	if !diff.Changed(lines) {
		log.Infof("documents are equal")
		return nil
	}
	return diff.Write(w, lines, context, colored)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func separator() string {
	if conf.Separator == "" {
		return "."
	}
	return conf.Separator
}

// documentNode returns the tree of d. Flat documents are viewed as one level.
func documentNode(d repo.Arrayable) *node.Node {
	if n, ok := d.(repo.Noder); ok {
		return n.ToNode()
	}
	return node.FromMap(d.ToArray())
}

func enumOptions(cmd *cobra.Command) []repo.Option {
	opts := []repo.Option{
		repo.WithTrimPrefix(viper.GetBool("trim-prefix")),
		repo.WithMaxDepth(viper.GetInt("max-depth")),
	}
	if cmd.Flags().Changed("offset") {
		opts = append(opts, repo.WithOffset(viper.GetString("offset")))
	}
	return opts
}

func combineOptions(merge bool) ([]repo.Option, error) {
	opts := []repo.Option{
		repo.WithOverride(viper.GetBool("override")),
		repo.WithRecursive(viper.GetBool("recursive")),
	}
	if offset := viper.GetString("offset"); offset != "" {
		opts = append(opts, repo.WithOffset(offset))
	}
	if !merge {
		return opts, nil
	}

	policy, err := parseCollision(viper.GetString("collision"))
	if err != nil {
		return nil, err
	}
	return append(opts, repo.WithCollision(policy)), nil
}

func parseCollision(s string) (node.CollisionPolicy, error) {
	switch strings.ToLower(s) {
	case "", "accumulate":
		return node.CollisionAccumulate, nil
	case "override":
		return node.CollisionOverride, nil
	default:
		return node.CollisionAccumulate, fmt.Errorf("invalid collision policy %s. must be one of accumulate, override", s)
	}
}
