package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
	"github.com/ValentinKolb/hKV/lib/repo/flat"
	"github.com/ValentinKolb/hKV/lib/repo/tree"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// Config is the configuration shared by all document commands
type Config struct {
	File      string // path of the document, "-" or empty reads stdin
	Format    string // format of the document (json, yaml, hcl)
	Output    string // format of printed documents and values, defaults to Format
	Separator string // path separator
	Flat      bool   // use a flat repository instead of a hierarchical one
	LogLevel  string // debug, info, warn, error
	Metrics   bool   // print container metrics to stderr after the command
}

// SetupDocumentFlags adds the document flags to a command
func SetupDocumentFlags(cmd *cobra.Command) {
	key := "file"
	cmd.PersistentFlags().StringP(key, "f", "-", WrapString("Path of the document to operate on, - reads from stdin"))

	key = "format"
	cmd.PersistentFlags().String(key, "json", WrapString("Format of the document (json, yaml, hcl)"))

	key = "output"
	cmd.PersistentFlags().StringP(key, "o", "", WrapString("Format of the output (json, yaml, hcl), defaults to the document format"))

	key = "separator"
	cmd.PersistentFlags().String(key, tree.DefaultSeparator, WrapString("Separator of path segments"))

	key = "flat"
	cmd.PersistentFlags().Bool(key, false, WrapString("Treat the document as a flat repository, keys are not split into paths"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print operation counters in Prometheus format to stderr after the command"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("hkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetConfig reads the document configuration from viper
func GetConfig() Config {
	conf := Config{
		File:      viper.GetString("file"),
		Format:    viper.GetString("format"),
		Output:    viper.GetString("output"),
		Separator: viper.GetString("separator"),
		Flat:      viper.GetBool("flat"),
		LogLevel:  viper.GetString("log-level"),
		Metrics:   viper.GetBool("metrics"),
	}
	if conf.Output == "" {
		conf.Output = conf.Format
	}
	return conf
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Documents
// --------------------------------------------------------------------------

// Document is a repository that can be decoded from and encoded to text
type Document interface {
	repo.IRepository
	Encode(c codec.ICodec) (string, error)
	Decode(c codec.ICodec, text string) error
}

// NewDocument creates an empty repository as configured
func NewDocument(conf Config) Document {
	if conf.Flat {
		return flat.New(nil)
	}
	return tree.New(nil, tree.WithSeparator(conf.Separator))
}

// ReadInput reads the document text from the configured file or from stdin
func ReadInput(conf Config, stdin io.Reader) ([]byte, error) {
	if conf.File == "" || conf.File == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(conf.File)
}

// LoadDocument reads and decodes the configured document. Empty input gives an empty document.
func LoadDocument(conf Config, stdin io.Reader) (Document, error) {
	text, err := ReadInput(conf, stdin)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(conf, text)
}

// DecodeDocument decodes text in the configured format into a new document
func DecodeDocument(conf Config, text []byte) (Document, error) {
	doc := NewDocument(conf)
	if len(bytes.TrimSpace(text)) == 0 {
		return doc, nil
	}

	c, err := codec.Get(conf.Format)
	if err != nil {
		return nil, err
	}
	if err := doc.Decode(c, string(text)); err != nil {
		return nil, err
	}

	// dotted top-level keys of a hierarchical document become paths
	if !conf.Flat {
		return tree.NewFromNode(doc.(*tree.Repository).ToNode(), tree.WithSeparator(conf.Separator)), nil
	}
	return doc, nil
}

// WriteDocument encodes doc in the output format and writes it to w
func WriteDocument(w io.Writer, conf Config, doc Document) error {
	c, err := codec.Get(conf.Output)
	if err != nil {
		return err
	}
	out, err := doc.Encode(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimSuffix(out, "\n"))
	return err
}

// WriteValue writes a single value to w. Strings are written as they are,
// everything else is encoded in the output format.
func WriteValue(w io.Writer, conf Config, value any) error {
	if s, ok := value.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}

	c, err := codec.Get(conf.Output)
	if err != nil {
		return err
	}
	b, err := c.Encode(node.FromValue(value))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimSuffix(string(b), "\n"))
	return err
}

// ParseValue interprets a command line argument: valid json (numbers, booleans,
// objects, ...) is decoded, anything else is taken as a string.
func ParseValue(arg string) any {
	wrapped, err := codec.NewJSONCodec().Decode([]byte(`{"v":` + arg + `}`))
	if err != nil {
		return arg
	}
	child, ok := wrapped.Child("v")
	if !ok {
		return arg
	}
	return child.Export()
}
