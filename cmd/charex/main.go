// Command charex looks up Unicode character properties and reverses
// string normalization: given a normalized string, it enumerates,
// counts, or samples the strings that normalize to it.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pji/charex/pkg/charinfo"
	"github.com/pji/charex/pkg/charset"
	"github.com/pji/charex/pkg/denormal"
	"github.com/pji/charex/pkg/escape"
	"github.com/pji/charex/pkg/normal"
	"github.com/pji/charex/pkg/unidata"
)

var version = "0.1.0"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "charex",
		Short: "Unicode character exploration",
		Long: `Charex explores Unicode characters and the strings that hide them.

It answers two kinds of questions:
  - What is this character? Name, category, script, block, age, and any
    other Unicode Character Database property.
  - What could this string have been? Given a normalized string, it
    enumerates, counts, or samples the strings that normalize to it.`,
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	loadConfig := func() (*Config, error) { return LoadConfig(configPath) }

	rootCmd.AddCommand(detailsCmd(loadConfig))
	rootCmd.AddCommand(denormalizeCmd(loadConfig))
	rootCmd.AddCommand(countCmd(loadConfig))
	rootCmd.AddCommand(randomCmd(loadConfig))
	rootCmd.AddCommand(formsCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(charsetsCmd())
	rootCmd.AddCommand(decodeCmd(loadConfig))
	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(escapeCmd())
	rootCmd.AddCommand(mapsCmd(loadConfig))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCache builds the property cache from the configured data
// directory and the embedded source manifest.
func openCache(cfg *Config) (*unidata.Cache, error) {
	manifest, err := unidata.DefaultManifest()
	if err != nil {
		return nil, err
	}
	return unidata.New(unidata.Config{DataDir: cfg.DataDir, Manifest: manifest})
}

// openEngine prefers the precomputed reverse-map archive and falls back
// to building the map in process when the archive is missing.
func openEngine(cfg *Config, form normal.Form) (*denormal.Engine, error) {
	if _, err := normal.Description(form); err != nil {
		return nil, err
	}
	eng, err := denormal.NewFromArchive(cfg.DataDir, form)
	if err == nil {
		return eng, nil
	}
	fmt.Fprintf(os.Stderr, "no reverse-map archive, building %s map in memory\n", form)
	return denormal.NewBuilt(form)
}

func detailsCmd(loadConfig func() (*Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "details [character...]",
		Short: "Show the properties of one or more characters",
		Long: `Show the properties of one or more characters.

Each argument is a literal character, a U+XXXX code point, or a 0xXXXX
hex value. Multi-character arguments are expanded character by
character.

Example:
  charex details é
  charex details U+00E9 U+0301`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openCache(cfg)
			if err != nil {
				return err
			}

			chars := make([]charinfo.Character, 0, len(args))
			for _, arg := range args {
				c, err := charinfo.Parse(db, arg)
				if err == nil {
					chars = append(chars, c)
					continue
				}
				// Multi-character literal: expand it.
				for _, r := range arg {
					chars = append(chars, charinfo.New(db, r))
				}
			}

			for i, c := range chars {
				if i > 0 {
					fmt.Println()
				}
				fmt.Println(c.Summary())
				for _, d := range c.Details(cfg.Properties) {
					label := d.Property
					if d.Long != d.Property {
						label = fmt.Sprintf("%s (%s)", d.Long, d.Property)
					}
					fmt.Printf("  %-40s %s\n", label, d.Value)
				}
			}
			return nil
		},
	}
}

func denormalizeCmd(loadConfig func() (*Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "denormalize <string>",
		Short: "List the strings that normalize to the given string",
		Long: `List every string that normalizes to the given string under the
chosen form.

The result count grows multiplicatively with string length. Run the
count command first, or cap per-character candidates with --maxdepth.

Example:
  charex denormalize --form nfkc "<->"
  charex denormalize --form nfkc --maxdepth 2 spam`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			form, _ := cmd.Flags().GetString("form")
			maxDepth, _ := cmd.Flags().GetInt("maxdepth")
			limit, _ := cmd.Flags().GetUint64("limit")
			if form == "" {
				form = cfg.DefaultForm
			}

			eng, err := openEngine(cfg, normal.Form(form))
			if err != nil {
				return err
			}
			var n uint64
			for s := range eng.All(args[0], maxDepth) {
				fmt.Println(s)
				n++
				if limit > 0 && n >= limit {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().String("form", "", "normalization form to invert")
	cmd.Flags().Int("maxdepth", 0, "max candidates per character, 0 for all")
	cmd.Flags().Uint64("limit", 0, "stop after this many results, 0 for all")
	return cmd
}

func countCmd(loadConfig func() (*Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <string>",
		Short: "Count the strings that normalize to the given string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			form, _ := cmd.Flags().GetString("form")
			maxDepth, _ := cmd.Flags().GetInt("maxdepth")
			if form == "" {
				form = cfg.DefaultForm
			}

			eng, err := openEngine(cfg, normal.Form(form))
			if err != nil {
				return err
			}
			fmt.Println(eng.Count(args[0], maxDepth))
			return nil
		},
	}
	cmd.Flags().String("form", "", "normalization form to invert")
	cmd.Flags().Int("maxdepth", 0, "max candidates per character, 0 for all")
	return cmd
}

func randomCmd(loadConfig func() (*Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random <string>",
		Short: "Sample random strings that normalize to the given string",
		Long: `Sample random strings that normalize to the given string under the
chosen form. Each sample picks one candidate per character
independently. A non-negative --seed makes the output repeatable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			form, _ := cmd.Flags().GetString("form")
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetInt64("seed")
			if form == "" {
				form = cfg.DefaultForm
			}

			eng, err := openEngine(cfg, normal.Form(form))
			if err != nil {
				return err
			}
			for _, s := range eng.Random(args[0], count, seed) {
				fmt.Println(s)
			}
			return nil
		},
	}
	cmd.Flags().String("form", "", "normalization form to invert")
	cmd.Flags().Int("count", 1, "number of samples")
	cmd.Flags().Int64("seed", -1, "random seed, negative for unseeded")
	return cmd
}

func formsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the supported normalization forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, form := range normal.Forms() {
				desc, err := normal.Description(form)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %s\n", form, desc)
			}
			return nil
		},
	}
}

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <string>",
		Short: "Normalize a string under the chosen form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, _ := cmd.Flags().GetString("form")
			out, err := normal.Normalize(normal.Form(form), args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().String("form", string(normal.NFC), "normalization form")
	return cmd
}

func charsetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charsets",
		Short: "List the supported character sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := charset.NewRegistry()
			for _, name := range reg.Names() {
				c, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Printf("%-12s %s\n", c.Name, c.Description)
			}
			return nil
		},
	}
}

func decodeCmd(loadConfig func() (*Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex-bytes>",
		Short: "Decode hex bytes through one or every character set",
		Long: `Decode a hexadecimal byte string through character sets.

With --charset, decodes through that set alone. Without it, decodes
through every registered set and shows each result with the summary of
its first character.

Example:
  charex decode e9
  charex decode --charset iso8859_1 e9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("charset")

			data, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return fmt.Errorf("not a hex byte string: %q", args[0])
			}
			reg := charset.NewRegistry()

			if name != "" {
				out, err := reg.Decode(name, data)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openCache(cfg)
			if err != nil {
				return err
			}
			results := reg.DecodeAll(data)
			for _, cs := range reg.Names() {
				out := results[cs]
				if out == "" {
					fmt.Printf("%-12s *** cannot decode ***\n", cs)
					continue
				}
				summaries := make([]string, 0, len(out))
				for _, r := range out {
					summaries = append(summaries, charinfo.New(db, r).Summary())
				}
				fmt.Printf("%-12s %s\n", cs, strings.Join(summaries, ", "))
			}
			return nil
		},
	}
	cmd.Flags().String("charset", "", "decode through this character set only")
	return cmd
}

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <string>",
		Short: "Encode a string through one or every character set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("charset")
			reg := charset.NewRegistry()

			if name != "" {
				out, err := reg.Encode(name, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%X\n", out)
				return nil
			}

			results := reg.EncodeAll(args[0])
			for _, cs := range reg.Names() {
				out := results[cs]
				if out == nil {
					fmt.Printf("%-12s *** cannot encode ***\n", cs)
					continue
				}
				fmt.Printf("%-12s %X\n", cs, out)
			}
			return nil
		},
	}
	cmd.Flags().String("charset", "", "encode through this character set only")
	return cmd
}

func escapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escape <string>",
		Short: "Escape a string with the chosen scheme",
		Long: `Escape every character of a string with the chosen scheme.

Schemes: ` + strings.Join(escape.Schemes(), ", ") + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, _ := cmd.Flags().GetString("scheme")
			list, _ := cmd.Flags().GetBool("list")

			if list {
				for _, name := range escape.Schemes() {
					desc, err := escape.Description(name)
					if err != nil {
						return err
					}
					fmt.Printf("%-6s %s\n", name, desc)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a string to escape is required")
			}
			out, err := escape.Escape(scheme, args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().String("scheme", "url", "escape scheme")
	cmd.Flags().Bool("list", false, "list the available schemes")
	return cmd
}
