package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/macro"
	"github.com/infiniteWander/xiv-gui-solver/internal/translate"
)

func main() {
	var rotationPath, lang string
	flag.StringVar(&rotationPath, "rotation", "configs/rotations/two-star.yaml", "Path to rotation YAML")
	flag.StringVar(&lang, "lang", "", "Macro language (defaults to the file's language, then en)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	rotationPath = filepath.Clean(rotationPath)
	file, err := macro.LoadRotation(filepath.Dir(rotationPath), filepath.Base(rotationPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load rotation")
	}
	ids, err := file.Actions()
	if err != nil {
		log.Fatal().Err(err).Msg("rotation invalid")
	}
	if lang == "" {
		lang = file.Language
	}

	journal := logsink.NewJournal(log.Logger)
	compiled, err := macro.NewCompiler(translate.New(journal), journal).Compile(ids, lang)
	if err != nil {
		log.Fatal().Err(err).Msg("rotation does not compile")
	}

	fmt.Printf("Rotation '%s' validated successfully (source: %s, %d actions, %d macro lines)\n\n",
		file.Name, rotationPath, len(ids), compiled.LineCount())
	fmt.Println(compiled.Rotation)
	for i, block := range compiled.Texts() {
		fmt.Printf("\n-- Macro #%d --\n%s\n", i+1, block)
	}
}
