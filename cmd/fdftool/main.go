// fdftool is a CLI utility for inspecting, checking and creating FDF maps.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration

	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
	"github.com/Faultbox/fdf-viewer/internal/imageio"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "list", "ls":
		cmdList(args)
	case "validate", "check":
		cmdValidate(args)
	case "fmt":
		cmdFmt(args)
	case "mesh":
		cmdMesh(args)
	case "convert":
		cmdConvert(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fdftool - FDF height map utility

Usage:
  fdftool <command> [options]

Commands:
  info <map>                    Show grid size and height statistics
  list                          List maps available by name
  validate <file.fdf>...        Check files and report the first error in each
  fmt <map> [output]            Rewrite a map with single spaces and trimmed lines
  mesh <map>                    Show the wireframe mesh and camera framing
  convert <image> <output.fdf>  Build a map from image luminance (png, jpeg, gif, bmp, tiff, tga)

A <map> is a preset name such as 42, or a file path. Maps by name are looked
up in -dir, then -url, then the built-in presets.

Examples:
  fdftool info 42
  fdftool list -dir ./maps
  fdftool validate maps/*.fdf
  fdftool mesh -spacing 2 pyramide
  fdftool convert -height 20 -step 4 heights.png hills.fdf`)
}

// sourceFlags registers the map lookup flags on fs.
func sourceFlags(fs *flag.FlagSet) (dir, url *string) {
	dir = fs.String("dir", "", "Directory of .fdf maps")
	url = fs.String("url", "", "Base URL of an HTTP map pack")
	return dir, url
}

// loadGrid resolves ref as a file path or a map name and parses it.
func loadGrid(ref, dir, url string) (*fdf.Grid, error) {
	var src mappack.Source = mappack.Standard(dir, url)
	if mappack.IsFilePath(ref) {
		src = mappack.PathSource{}
	}
	text, err := mappack.LoadText(context.Background(), src, ref)
	if err != nil {
		return nil, err
	}
	return fdf.Parse(text)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dir, url := sourceFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fdftool info [-dir dir] [-url url] <map>")
		os.Exit(1)
	}

	grid, err := loadGrid(fs.Arg(0), *dir, *url)
	if err != nil {
		fail(err)
	}

	st := fdf.ComputeStats(grid)
	fmt.Printf("Map:     %s\n", fs.Arg(0))
	fmt.Printf("Size:    %d x %d (%d cells)\n", st.Width, st.Height, st.Cells)
	fmt.Printf("Heights: min %g, max %g, mean %.3f\n", st.Min, st.Max, st.Mean)
	fmt.Printf("Edges:   %d\n", st.Edges)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dir := fs.String("dir", "", "Also list .fdf files in this directory")
	fs.Parse(args)

	for _, name := range mappack.EmbeddedNames() {
		fmt.Printf("%-16s built-in\n", name)
	}
	if *dir == "" {
		return
	}

	matches, err := filepath.Glob(filepath.Join(*dir, "*"+mappack.Extension))
	if err != nil {
		fail(err)
	}
	for _, m := range matches {
		fmt.Printf("%-16s %s\n", strings.TrimSuffix(filepath.Base(m), mappack.Extension), m)
	}
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fdftool validate <file.fdf>...")
		os.Exit(1)
	}

	bad := 0
	for _, path := range fs.Args() {
		grid, err := fdf.ParseFile(path)
		if err != nil {
			var pe *fdf.ParseError
			if errors.As(err, &pe) {
				fmt.Printf("%s:%d:%d: %v\n", path, pe.Line, pe.Column, pe.Err)
			} else {
				fmt.Printf("%s: %v\n", path, err)
			}
			bad++
			continue
		}
		fmt.Printf("%s: ok (%dx%d)\n", path, grid.Width(), grid.Height())
	}

	if bad > 0 {
		fmt.Fprintf(os.Stderr, "\n(%d of %d files invalid)\n", bad, fs.NArg())
		os.Exit(1)
	}
}

func cmdFmt(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	dir, url := sourceFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fdftool fmt <map> [output]")
		os.Exit(1)
	}

	grid, err := loadGrid(fs.Arg(0), *dir, *url)
	if err != nil {
		fail(err)
	}

	if fs.NArg() < 2 {
		if err := fdf.Write(os.Stdout, grid); err != nil {
			fail(err)
		}
		return
	}
	if err := os.WriteFile(fs.Arg(1), []byte(fdf.Format(grid)), 0644); err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", fs.Arg(1))
}

func cmdMesh(args []string) {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	dir, url := sourceFlags(fs)
	spacing := fs.Float64("spacing", 1, "Distance between grid points")
	fov := fs.Float64("fov", 75, "Vertical field of view in degrees, used for framing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fdftool mesh [-spacing s] [-fov deg] <map>")
		os.Exit(1)
	}

	grid, err := loadGrid(fs.Arg(0), *dir, *url)
	if err != nil {
		fail(err)
	}

	mesh, err := terrain.BuildWireframe(grid, terrain.Options{
		Spacing:         float32(*spacing),
		Gradient:        terrain.DefaultGradient(),
		GradientEnabled: true,
		FlatColor:       terrain.White,
		HalfFOV:         *fov * math.Pi / 360,
	})
	if err != nil {
		fail(err)
	}

	fmt.Printf("Vertices:  %d\n", mesh.VertexCount())
	fmt.Printf("Edges:     %d\n", mesh.EdgeCount())
	fmt.Printf("Bounds:    %v .. %v\n", mesh.Bounds.Min, mesh.Bounds.Max)
	fmt.Printf("Look from: %v\n", mesh.Framing.LookFrom)
	fmt.Printf("Look at:   %v\n", mesh.Framing.LookAt)
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	height := fs.Float64("height", 10, "Height given to white pixels")
	step := fs.Int("step", 1, "Sample every Nth pixel")
	exact := fs.Bool("exact", false, "Keep fractional heights instead of rounding")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: fdftool convert [-height h] [-step n] <image> <output.fdf>")
		os.Exit(1)
	}

	img, format, err := imageio.Decode(fs.Arg(0))
	if err != nil {
		fail(fmt.Errorf("decoding %s: %w", fs.Arg(0), err))
	}

	grid := fdf.FromImage(img, *height, *step, !*exact)
	if err := grid.Validate(); err != nil {
		fail(err)
	}
	if err := os.WriteFile(fs.Arg(1), []byte(fdf.Format(grid)), 0644); err != nil {
		fail(err)
	}
	fmt.Printf("Converted %s image to %s (%dx%d)\n", format, fs.Arg(1), grid.Width(), grid.Height())
}
