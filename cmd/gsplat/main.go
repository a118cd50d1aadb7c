//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Command gsplat is a thin wrapper over the collection API: inspect splat
// files and convert between the supported representations.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/gsplat/entities/gaussian"
	"github.com/weaviate/gsplat/usecases/collection"
)

type options struct {
	Verbose bool `short:"v" long:"verbose" description:"enable debug logging"`

	Info    infoCommand    `command:"info" description:"print header information of a splat file"`
	Convert convertCommand `command:"convert" description:"convert a splat file into another representation"`
}

var (
	opts options
	log  = logrus.New()
)

type infoCommand struct {
	Args struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

func (c *infoCommand) Execute([]string) error {
	col, err := open(c.Args.File)
	if err != nil {
		return err
	}

	fmt.Printf("format: %s\n", col.Kind())
	fmt.Printf("splats: %d\n", col.Len())
	fmt.Printf("sh degree: %d\n", col.ShDegree())
	return nil
}

type convertCommand struct {
	Degree *uint8 `long:"degree" description:"declared SH degree of the output (default: source degree)"`
	ASCII  bool   `long:"ascii" description:"write the ASCII variant for PLY output"`

	Args struct {
		In  string `positional-arg-name:"in" required:"yes"`
		Out string `positional-arg-name:"out" required:"yes"`
	} `positional-args:"yes"`
}

func (c *convertCommand) Execute([]string) error {
	col, err := open(c.Args.In)
	if err != nil {
		return err
	}

	degree := col.ShDegree()
	if c.Degree != nil {
		degree, err = gaussian.NewShDegree(*c.Degree)
		if err != nil {
			return err
		}
	}

	kind, err := kindForPath(c.Args.Out)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"in":     c.Args.In,
		"out":    c.Args.Out,
		"kind":   kind,
		"degree": degree,
		"splats": col.Len(),
	}).Info("converting")

	_, err = col.ConvertTo(collection.Target{
		Kind:   kind,
		Path:   c.Args.Out,
		Degree: degree,
		ASCII:  c.ASCII,
	})
	return err
}

func open(path string) (*collection.Collection, error) {
	kind, err := kindForPath(path)
	if err != nil {
		return nil, err
	}

	copts := &collection.Options{Logger: log}
	switch kind {
	case collection.KindSPZ:
		return collection.OpenSPZ(path, copts)
	default:
		return collection.OpenPLY(path, copts)
	}
}

func kindForPath(path string) (collection.Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		return collection.KindPLY, nil
	case ".spz":
		return collection.KindSPZ, nil
	default:
		return 0, fmt.Errorf("cannot tell format from extension of %q", path)
	}
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if opts.Verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatal(err)
	}
}
