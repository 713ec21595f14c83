package main

import (
	"errors"
	"fmt"
	"image/gif"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/kevin-cantwell/monogif"
)

func main() {
	r := newRunner(filepath.Base(os.Args[0]), os.Stdin, os.Stdout, os.Stderr)
	if err := r.app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runner carries the program name and streams through every step so that
// diagnostics always name the program the way it was invoked.
type runner struct {
	name   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
}

func newRunner(name string, stdin io.Reader, stdout, stderr io.Writer) *runner {
	return &runner{
		name:   name,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    log.New(stderr, name+": ", 0),
	}
}

func (r *runner) app() *cli.App {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = r.name
	app.Usage = "Converts animated GIFs into two-color GIFs for monochrome displays."
	app.UsageText = r.name + " [options] input.gif output.gif\n" +
		/*      */ "   input may be a file, a url or - for stdin; output may be - for stdout"
	app.Author = "Kevin Cantwell"
	app.Email = "kevin.cantwell@gmail.com"
	app.Writer = r.stderr
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "contrast,c",
			Usage: "`CONTRAST` = 0 gives the original image. CONTRAST = -100 gives solid grey image. CONTRAST = 100 gives maximum contrast.",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "dither,d",
			Usage: "`METHOD` is a code or name: 0 floyd-steinberg, 1 bayer, 2 atkinson, 3 stucki, 4 burkes, 5 sierra-lite.",
			Value: "0",
		},
		cli.BoolFlag{
			Name:  "edge,e",
			Usage: "Outlines strong edges in black before dithering.",
		},
		cli.StringFlag{
			Name:  "fit,f",
			Usage: "`FIT` = 128x64 scales the output down to fit 128 by 64 pixels.",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "Reads settings from a YAML `FILE`. Flags on the command line take precedence.",
		},
		cli.BoolFlag{
			Name:  "print,p",
			Usage: "Prints every converted frame to stdout as braille.",
		},
		cli.StringFlag{
			Name:  "preview",
			Usage: "Writes a contact sheet of the converted frames to `FILE` (.png or .bmp).",
		},
		cli.IntFlag{
			Name:  "preview-columns",
			Usage: "`COLUMNS` of the contact sheet.",
			Value: 4,
		},
		cli.IntFlag{
			Name:  "preview-scale",
			Usage: "Magnifies contact sheet frames by `SCALE`.",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "raw",
			Usage: "Writes the frames as a packed 1 bit per pixel stream to `FILE`, zstd compressed if it ends in .zst.",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Logs every converted frame.",
		},
	}
	app.Action = r.action
	return app
}

func (r *runner) action(c *cli.Context) error {
	if c.NArg() != 2 {
		return r.usage(c, errors.New("expected an input and an output path"))
	}
	input, output := c.Args().Get(0), c.Args().Get(1)
	if output == "-" && c.Bool("print") {
		return r.usage(c, errors.New("--print cannot share stdout with the output gif"))
	}

	cfg, err := r.config(c)
	if err != nil {
		return r.usage(c, err)
	}

	in, err := r.open(input)
	if err != nil {
		return r.fail(err)
	}
	giff, err := monogif.DecodeGIF(in)
	in.Close()
	if err != nil {
		return r.fail(fmt.Errorf("decode %s: %w", input, err))
	}

	enc := monogif.NewGIFEncoder(cfg)
	if c.Bool("verbose") {
		enc.Logger = r.log
	}
	out, err := enc.Convert(giff)
	if err != nil {
		return r.fail(fmt.Errorf("convert %s: %w", input, err))
	}

	if err := r.create(output, func(w io.Writer) error {
		return gif.EncodeAll(w, out)
	}); err != nil {
		return r.fail(fmt.Errorf("encode %s: %w", output, err))
	}

	if c.Bool("print") {
		for _, frame := range out.Image {
			if err := (monogif.BrailleFlusher{}).Flush(r.stdout, frame); err != nil {
				return r.fail(err)
			}
			fmt.Fprintln(r.stdout)
		}
	}

	if path := c.String("preview"); path != "" {
		sheet := monogif.ContactSheet(out.Image, c.Int("preview-columns"), c.Int("preview-scale"))
		if err := r.create(path, func(w io.Writer) error {
			return monogif.WritePreview(w, sheet, monogif.PreviewFormat(path))
		}); err != nil {
			return r.fail(fmt.Errorf("preview %s: %w", path, err))
		}
	}

	if path := c.String("raw"); path != "" {
		if err := r.create(path, func(w io.Writer) error {
			raw, err := monogif.NewRawEncoder(w, strings.HasSuffix(path, ".zst"))
			if err != nil {
				return err
			}
			return raw.EncodeAll(out)
		}); err != nil {
			return r.fail(fmt.Errorf("raw %s: %w", path, err))
		}
	}

	r.log.Printf("wrote %d frames (%dx%d, %s)", len(out.Image), out.Config.Width, out.Config.Height, cfg.Dither)
	return nil
}

// config starts from the --config file, if any, and applies the flags that
// were given explicitly.
func (r *runner) config(c *cli.Context) (monogif.Config, error) {
	var cfg monogif.Config
	if path := c.String("config"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if cfg, err = monogif.LoadConfig(f); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if c.IsSet("contrast") {
		cfg.Contrast = c.Int("contrast")
	}
	if c.IsSet("dither") {
		m, err := monogif.ParseMethod(c.String("dither"))
		if err != nil {
			return cfg, err
		}
		cfg.Dither = m
	}
	if c.Bool("edge") {
		cfg.Edges = true
	}
	if c.IsSet("fit") {
		size, err := monogif.ParseSize(c.String("fit"))
		if err != nil {
			return cfg, err
		}
		cfg.Fit = size
	}
	return cfg, cfg.Validate()
}

// open reads from stdin for "-", from a file if one exists at path, and from
// the web otherwise.
func (r *runner) open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(r.stdin), nil
	}
	file, err := os.Open(path)
	if err == nil {
		return file, nil
	}
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return nil, err
	}
	resp, err := http.Get(path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: %s", path, resp.Status)
	}
	return resp.Body, nil
}

// create passes write a file at path, or stdout for "-". A file left behind by
// a failed write is removed, since it would not be a valid image.
func (r *runner) create(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(r.stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (r *runner) usage(c *cli.Context, err error) error {
	cli.ShowAppHelp(c)
	return r.fail(err)
}

func (r *runner) fail(err error) error {
	return cli.NewExitError(r.name+": "+err.Error(), 1)
}
