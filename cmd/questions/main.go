package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"questions/internal/config"
	"questions/internal/corpus"
	"questions/internal/language"
	"questions/internal/lexical"
	"questions/internal/normalize"
	"questions/internal/service"
	"questions/internal/tui"
)

const usage = "Usage: questions [flags] corpus"

// usageError is reported with the usage line and exit status 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	var ue usageError
	if errors.As(err, &ue) {
		if ue.msg != "" {
			fmt.Fprintln(os.Stderr, ue.msg)
		}
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		cfgPath   string
		files     int
		sentences int
		query     string
		useTUI    bool
		usePlain  bool
		verbose   bool
	)
	flagSet := pflag.NewFlagSet("questions", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&cfgPath, "config", "", "path to YAML config file (default: ./config.yaml or ~/.config/questions/config.yaml)")
	flagSet.IntVarP(&files, "files", "f", 0, "number of top files to search for sentences (FILE_MATCHES)")
	flagSet.IntVarP(&sentences, "sentences", "s", 0, "number of sentences to print (SENTENCE_MATCHES)")
	flagSet.StringVarP(&query, "query", "q", "", "answer this query and exit instead of prompting")
	flagSet.BoolVar(&useTUI, "tui", false, "use the interactive terminal UI")
	flagSet.BoolVar(&usePlain, "plain", false, "prompt once on stdin and print the answer")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log ranking details to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageError{msg: err.Error()}
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(stderr, usage)
		flagSet.PrintDefaults()
		return nil
	}
	if flagSet.NArg() != 1 {
		return usageError{msg: "expected exactly one corpus directory"}
	}
	if useTUI && usePlain {
		return usageError{msg: "--tui and --plain are mutually exclusive"}
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if flagSet.Changed("files") {
		cfg.Ranking.FileMatches = files
	}
	if flagSet.Changed("sentences") {
		cfg.Ranking.SentenceMatches = sentences
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	switch {
	case useTUI:
		cfg.UI.Mode = config.UIModeTUI
	case usePlain:
		cfg.UI.Mode = config.UIModePlain
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}

	logger := newLogger(stderr, cfg.Log.Level)

	profile, err := loadProfile(cfg.Language)
	if err != nil {
		return err
	}
	splitter, err := lexical.NewSplitter()
	if err != nil {
		return err
	}
	normalizer := normalize.New(splitter, profile)
	svc := service.NewQAService(
		corpus.NewDirLoader(cfg.Corpus.Extensions...),
		normalizer,
		splitter,
		service.Options{
			FileMatches:     cfg.Ranking.FileMatches,
			SentenceMatches: cfg.Ranking.SentenceMatches,
			Workers:         cfg.Engine.Workers,
		},
		logger,
	)

	summary, err := svc.Load(ctx, flagSet.Arg(0))
	if err != nil {
		if errors.Is(err, corpus.ErrNotDirectory) || errors.Is(err, corpus.ErrNoDocuments) {
			return usageError{msg: err.Error()}
		}
		return fmt.Errorf("load corpus: %w", err)
	}

	if flagSet.Changed("query") {
		return answer(ctx, svc, query, stdout)
	}
	if cfg.UI.Mode == config.UIModeTUI || (cfg.UI.Mode == config.UIModeAuto && isTerminal(stdin)) {
		m := tui.New(ctx, svc, normalizer, summary.String())
		_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(stdin), tea.WithOutput(stdout)).Run()
		return err
	}

	fmt.Fprint(stdout, "Query: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read query: %w", err)
	}
	return answer(ctx, svc, strings.TrimSpace(line), stdout)
}

func answer(ctx context.Context, svc *service.QAService, query string, stdout io.Writer) error {
	a, err := svc.Answer(ctx, query)
	if err != nil {
		return err
	}
	for _, text := range a.Texts() {
		fmt.Fprintln(stdout, text)
	}
	return nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func loadProfile(cfg config.LanguageConfig) (*language.Profile, error) {
	if cfg.StopwordsFile != "" {
		return language.Load(cfg.Name, cfg.Tag, cfg.StopwordsFile)
	}
	if cfg.Name != "" && cfg.Name != "english" {
		return nil, fmt.Errorf("no built-in stopwords for language %q; set language.stopwords_file", cfg.Name)
	}
	return language.English(), nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
