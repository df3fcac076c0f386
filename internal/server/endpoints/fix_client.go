package endpoints

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/clipboard"
	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/history"
	"github.com/fixspelling/fixspell/internal/home"
	"github.com/fixspelling/fixspell/internal/prefs"
)

type fixOptions struct {
	model        string
	modelChanged bool
	copy         bool
	interactive  bool
	structured   bool
}

// fixClient is the command-line side of POST /api/fix.
type fixClient struct {
	client  *api.Client
	prefs   *prefs.Store
	history *history.Store
	copier  *clipboard.Copier
	opts    fixOptions
	out     io.Writer
	errOut  io.Writer
}

func newFixClient(serverURL, homeDir string, opts fixOptions, out, errOut io.Writer) (*fixClient, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	p, err := prefs.Open(h.PrefsPath())
	if err != nil {
		return nil, err
	}

	fc := &fixClient{
		client:  api.NewClient(serverURL),
		prefs:   p,
		history: history.New(),
		copier:  clipboard.New(out),
		opts:    opts,
		out:     out,
		errOut:  errOut,
	}
	if opts.modelChanged {
		if err := fc.setModel(opts.model); err != nil {
			return nil, err
		}
	}
	return fc, nil
}

// model returns the model to request, "" for the server default.
func (fc *fixClient) model() string {
	return fc.prefs.Model()
}

func (fc *fixClient) setModel(model string) error {
	if err := fc.prefs.SetModel(model); err != nil {
		return fmt.Errorf("failed to save model preference: %w", err)
	}
	return nil
}

// fix sends one text, renders the snapshots as they arrive and records the
// final result in the history.
func (fc *fixClient) fix(ctx context.Context, text string) (history.Message, error) {
	body, err := fc.client.PostStream(ctx, "/api/fix", FixRequest{Text: text, Model: fc.model()})
	if err != nil {
		return history.Message{}, err
	}
	defer body.Close()

	sr := correction.NewSnapshotReader(body)
	var p *snapshotPrinter
	if !fc.opts.structured {
		p = &snapshotPrinter{w: fc.out}
	}
	for sr.Next() {
		if p != nil {
			p.print(sr.Snapshot())
		}
	}
	res, err := sr.Final()
	if p != nil {
		p.finish(sr.Snapshot())
	}
	if err != nil {
		return history.Message{}, err
	}

	if fc.opts.structured {
		if err := api.Output(res); err != nil {
			return history.Message{}, err
		}
	}

	msg := fc.history.Add(history.Message{
		OriginalText:  text,
		CorrectedText: res.FixedText,
		Explanation:   res.Explanation,
	})

	if fc.opts.copy {
		fc.copy(ctx, res.FixedText)
	}
	return msg, nil
}

func (fc *fixClient) copy(ctx context.Context, text string) {
	method, err := fc.copier.Copy(ctx, text)
	if err != nil {
		fmt.Fprintf(fc.errOut, "copy failed: %v\n", err)
		return
	}
	fmt.Fprintf(fc.errOut, "copied to clipboard (%s)\n", method)
}

const interactiveHelp = `Type a line of text to correct it. Commands:
  :history        list corrections made in this session
  :delete <id>    remove a correction from the history
  :clear          clear the history
  :copy <id>      copy a corrected text to the clipboard
  :model [name]   show or change the model
  :quit           exit`

// interactive reads texts line by line until EOF or :quit.
func (fc *fixClient) interactive(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(fc.errOut, interactiveHelp)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for {
		fmt.Fprint(fc.errOut, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(fc.errOut)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			quit, err := fc.command(ctx, line)
			if err != nil {
				fmt.Fprintf(fc.errOut, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if _, err := fc.fix(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(fc.errOut, "error: %v\n", err)
		}
	}
}

func (fc *fixClient) command(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help", ":h":
		fmt.Fprintln(fc.errOut, interactiveHelp)
	case ":history":
		msgs := fc.history.List()
		if len(msgs) == 0 {
			fmt.Fprintln(fc.out, "no corrections yet")
			return false, nil
		}
		return false, api.Output(msgs)
	case ":delete":
		id, err := messageID(args)
		if err != nil {
			return false, err
		}
		return false, fc.history.Delete(id)
	case ":clear":
		fc.history.Clear()
	case ":copy":
		id, err := messageID(args)
		if err != nil {
			return false, err
		}
		m, ok := fc.history.Get(id)
		if !ok {
			return false, fmt.Errorf("message %d not found", id)
		}
		fc.copy(ctx, m.CorrectedText)
	case ":model":
		if len(args) == 0 {
			model := fc.model()
			if model == "" {
				model = "(server default)"
			}
			fmt.Fprintln(fc.out, model)
			return false, nil
		}
		return false, fc.setModel(args[0])
	default:
		return false, fmt.Errorf("unknown command %s (try :help)", name)
	}
	return false, nil
}

func messageID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a message id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q", args[0])
	}
	return id, nil
}

// inputText joins the arguments, or reads all of r when there are none.
func inputText(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text given: pass it as arguments or on stdin")
	}
	return text, nil
}

// snapshotPrinter writes each snapshot as the delta from the previous one.
// The corrected text streams first; if it grows after the explanation has
// started, finish prints it again in full.
type snapshotPrinter struct {
	w       io.Writer
	fixed   int
	expl    int
	inExpl  bool
	started bool
}

func (p *snapshotPrinter) print(res correction.Result) {
	if !p.inExpl && len(res.FixedText) > p.fixed {
		io.WriteString(p.w, res.FixedText[p.fixed:])
		p.fixed = len(res.FixedText)
		p.started = true
	}
	if len(res.Explanation) > p.expl {
		if !p.inExpl {
			p.inExpl = true
			if p.started {
				io.WriteString(p.w, "\n\n")
			}
			io.WriteString(p.w, "Explanation: ")
		}
		io.WriteString(p.w, res.Explanation[p.expl:])
		p.expl = len(res.Explanation)
		p.started = true
	}
}

func (p *snapshotPrinter) finish(res correction.Result) {
	if len(res.FixedText) > p.fixed {
		io.WriteString(p.w, "\n\nCorrected text: "+res.FixedText)
		p.fixed = len(res.FixedText)
		p.started = true
	}
	if p.started {
		io.WriteString(p.w, "\n")
	}
}
