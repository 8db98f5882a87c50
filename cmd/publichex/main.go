// Command publichex builds and verifies checksum-framed payloads and emits
// canonical verification capsules.
//
// Exit codes are uniform across commands: 0 PASS, 2 FAIL (structurally valid
// input that failed integrity or invariant checks), 1 ERROR (input that could
// not be interpreted, or a usage problem).
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"publichex/internal/capsule"
	"publichex/internal/config"
	"publichex/internal/frame"
	"publichex/internal/hexnorm"
	"publichex/internal/ledger"
	"publichex/internal/legacy"
	"publichex/internal/logging"
	"publichex/internal/verify"
)

var log = logging.For("cli")

var cli struct {
	Config string `help:"Path to config file." type:"path"`

	Encode          EncodeCmd          `cmd:"" help:"Wrap a payload in a checksum frame."`
	Verify          VerifyCmd          `cmd:"" help:"Verify a wire frame and emit a capsule."`
	PublichexVerify PublichexVerifyCmd `cmd:"" name:"publichex-verify" help:"Normalize hex text and emit a capsule."`
	LegacyEncode    LegacyEncodeCmd    `cmd:"" name:"legacy-encode" help:"Encode text with the legacy sha256 suffix scheme."`
	LegacyVerify    LegacyVerifyCmd    `cmd:"" name:"legacy-verify" help:"Verify legacy sha256-suffixed text."`
	History         HistoryCmd         `cmd:"" help:"List recorded verification runs."`
}

// exitError carries a non-zero exit code out of a command Run without
// triggering kong's error printing; the capsule already reported the reasons.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("publichex"),
		kong.Description("Checksum-framed payload encoder and verifier."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(cfg.Validate())
	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	err = ctx.Run(cfg)
	var xe *exitError
	if errors.As(err, &xe) {
		os.Exit(xe.code)
	}
	ctx.FatalIfErrorf(err)
}

// EncodeCmd wraps a payload in the wire frame. Payload bytes are forwarded
// untouched; no encoding transforms happen on the way in.
type EncodeCmd struct {
	Text *string `help:"Payload text (reads the file argument or stdin when omitted)."`
	Hex  bool    `help:"Emit the wire frame as lowercase hex instead of raw bytes."`
	File string  `arg:"" optional:"" help:"Payload file." type:"existingfile"`
}

func (c *EncodeCmd) Run(cfg *config.Config) error {
	payload, err := readInput(c.Text, c.File)
	if err != nil {
		return err
	}
	if len(payload) > cfg.Verify.MaxPayload {
		return fmt.Errorf("payload exceeds configured maximum of %d bytes", cfg.Verify.MaxPayload)
	}

	wire := frame.Encode(payload)
	if c.Hex {
		fmt.Println(hex.EncodeToString(wire))
		return nil
	}
	if _, err := os.Stdout.Write(wire); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// VerifyCmd runs the frame pipeline: decode, integrity validation, optional
// strict invariants. The capsule goes to stdout, reasons to stderr.
type VerifyCmd struct {
	Hex    string `help:"Wire frame as hex text (mixed case and whitespace accepted)."`
	Strict bool   `help:"Run the strict invariant suite after integrity checks."`
	File   string `arg:"" optional:"" help:"Wire frame file (stdin when omitted)." type:"existingfile"`
}

func (c *VerifyCmd) Run(cfg *config.Config) error {
	strict := c.Strict || cfg.Verify.Strict

	var wire []byte
	if c.Hex != "" {
		normalized, err := hexnorm.NormalizeFrameHex(c.Hex)
		if err == nil {
			wire, err = hex.DecodeString(normalized)
		}
		if err != nil {
			out := verify.Outcome{Status: verify.Error, Reasons: []string{err.Error()}}
			return emit(cfg, nil, out, strict)
		}
	} else {
		var err error
		wire, err = readRaw(c.File)
		if err != nil {
			return err
		}
	}

	out := verify.Verify(wire, strict)
	return emit(cfg, wire, out, strict)
}

// emit renders the capsule, records the run in the ledger when enabled, and
// converts the outcome into the exit contract.
func emit(cfg *config.Config, wire []byte, out verify.Outcome, strict bool) error {
	normalized := ""
	if out.Status != verify.Error {
		normalized = hex.EncodeToString(wire)
	}
	if err := capsule.New(normalized, out.Reasons).Write(os.Stdout, os.Stderr); err != nil {
		return err
	}

	recordRun(cfg, wire, out, strict)

	if out.Status != verify.Pass {
		return &exitError{code: out.Status.ExitCode()}
	}
	return nil
}

// recordRun appends to the ledger when configured. Ledger problems are
// logged, never allowed to change the verification outcome.
func recordRun(cfg *config.Config, wire []byte, out verify.Outcome, strict bool) {
	if !cfg.Ledger.Enabled {
		return
	}
	l, err := openLedger(cfg)
	if err != nil {
		log.Warn("ledger unavailable", "error", err)
		return
	}
	defer l.Close()

	rec, err := l.Append(wire, out.Status.String(), out.Reasons, strict)
	if err != nil {
		log.Warn("ledger append failed", "error", err)
		return
	}
	log.Debug("recorded verification", "id", rec.ID, "status", rec.Status)
}

func openLedger(cfg *config.Config) (*ledger.Ledger, error) {
	path := config.ExpandHome(cfg.Ledger.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}
	return ledger.Open(path)
}

// PublichexVerifyCmd is the standalone hex capsule: normalize, validate,
// report. Uses the unconditional even-length rule.
type PublichexVerifyCmd struct {
	Hex *string `help:"Hex text to normalize (reads stdin when omitted)."`
}

func (c *PublichexVerifyCmd) Run(cfg *config.Config) error {
	var raw string
	if c.Hex != nil {
		raw = *c.Hex
	} else {
		data, err := readStdin()
		if err != nil {
			return err
		}
		raw = string(data)
	}

	normalized, err := hexnorm.Normalize(raw)
	if err != nil {
		if werr := capsule.New("", []string{err.Error()}).Write(os.Stdout, os.Stderr); werr != nil {
			return werr
		}
		return &exitError{code: verify.Error.ExitCode()}
	}
	return capsule.New(normalized, nil).Write(os.Stdout, os.Stderr)
}

// LegacyEncodeCmd emits text with its sha256 suffix, matching the output of
// the original tooling.
type LegacyEncodeCmd struct {
	Text string `arg:"" help:"Text to encode."`
}

func (c *LegacyEncodeCmd) Run(_ *config.Config) error {
	fmt.Println(legacy.Encode(c.Text))
	return nil
}

// LegacyVerifyCmd checks a sha256-suffixed string. Exit 0 on success, 1 on
// failure, as the original tooling did.
type LegacyVerifyCmd struct {
	Text *string `arg:"" optional:"" help:"Encoded text (reads stdin when omitted)."`
}

func (c *LegacyVerifyCmd) Run(_ *config.Config) error {
	var encoded string
	if c.Text != nil {
		encoded = *c.Text
	} else {
		data, err := readStdin()
		if err != nil {
			return err
		}
		encoded = strings.TrimSpace(string(data))
	}

	if legacy.Verify(encoded) {
		fmt.Fprintln(os.Stderr, "Verification successful")
		return nil
	}
	fmt.Fprintln(os.Stderr, "Verification failed")
	return &exitError{code: 1}
}

// HistoryCmd dumps ledger records as JSON lines, oldest first.
type HistoryCmd struct{}

func (c *HistoryCmd) Run(cfg *config.Config) error {
	if !cfg.Ledger.Enabled {
		return fmt.Errorf("ledger is disabled; enable it in the config file")
	}
	l, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer l.Close()

	records, err := l.List()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	return nil
}

func readInput(text *string, file string) ([]byte, error) {
	if text != nil {
		return []byte(*text), nil
	}
	return readRaw(file)
}

func readRaw(file string) ([]byte, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		return data, nil
	}
	return readStdin()
}

func readStdin() ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "reading from terminal; end input with Ctrl-D")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}
