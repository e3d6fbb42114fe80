// Command fxinfo prints the object graph of compiled effects and content
// containers as YAML.
//
// Usage:
//
//	fxinfo [-config file] [-root dir] [-backend name] [-reencode out] file...
//
// Container files are loaded through a content manager rooted at -root,
// or at the file's directory. Other files are decoded as raw effects.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	_ "github.com/gogpu/fx/backend/native"
	_ "github.com/gogpu/fx/backend/webgpu"
	"github.com/gogpu/fx/content"
	"github.com/gogpu/fx/effect"
	"gopkg.in/yaml.v3"
)

// options are the resolved flags and config values.
type options struct {
	root     string
	backend  string
	reencode string
	verbose  bool
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file (default "+defaultConfigPath+")")
		root       = flag.String("root", "", "content root for container files")
		backendArg = flag.String("backend", "", `device backend: "native", "webgpu", "null" or "default"`)
		reencode   = flag.String("reencode", "", "write the decoded effect in the current format to this file")
		verbose    = flag.Bool("v", false, "log decode progress to stderr")
		version    = flag.Bool("version", false, "print the fx version and exit")
	)
	flag.Parse()
	if *version {
		fmt.Println("fxinfo", fx.Version)
		return
	}

	path, required := defaultConfigPath, false
	if *configPath != "" {
		path, required = *configPath, true
	}
	cfg, err := loadConfig(path, required)
	if err != nil {
		log.Fatal(err)
	}

	opts := options{
		root:     firstNonEmpty(*root, cfg.Root),
		backend:  firstNonEmpty(*backendArg, cfg.Backend),
		reencode: *reencode,
		verbose:  *verbose || cfg.Verbose,
	}
	if err := run(opts, flag.Args(), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(opts options, files []string, out io.Writer) error {
	if len(files) == 0 {
		return errors.New("no input files")
	}
	if opts.reencode != "" && len(files) != 1 {
		return errors.New("-reencode takes exactly one input file")
	}
	if opts.verbose {
		fx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	dev, err := openDevice(opts.backend)
	if err != nil {
		return err
	}
	if dev != nil {
		defer dev.Close()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()

	for _, file := range files {
		v, err := load(file, opts.root, dev)
		if err != nil {
			return err
		}
		if err := enc.Encode(map[string]any{file: describe(v)}); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if opts.reencode != "" {
			if err := writeEffect(opts.reencode, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func openDevice(name string) (backend.Device, error) {
	switch name {
	case "":
		return nil, nil
	case "default":
		return backend.Default()
	default:
		return backend.Get(name)
	}
}

// load decodes a container or a raw effect.
func load(file, root string, dev backend.Device) (any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, content.Signature[:]) {
		opts := []effect.Option{effect.WithLabel(filepath.Base(file))}
		if dev != nil {
			opts = append(opts, effect.WithDevice(dev))
		}
		b, err := effect.Decode(data, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return b, nil
	}

	if root == "" {
		root = filepath.Dir(file)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%s is outside content root %s", file, root)
	}
	var mopts []content.Option
	if dev != nil {
		mopts = append(mopts, content.WithDevice(dev))
	}
	return content.NewManager(root, mopts...).Load(filepath.ToSlash(rel))
}

func writeEffect(path string, v any) error {
	b, ok := v.(*effect.Bundle)
	if !ok {
		return fmt.Errorf("-reencode: asset is %T, not an effect", v)
	}
	data, err := effect.Encode(b, effect.VersionCurrent)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
