package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"pawsay/internal/domain/translation/model"
	"pawsay/internal/pkg/capture"
	"pawsay/internal/pkg/recording"
	"strings"

	"github.com/spf13/cobra"
)

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Record from the microphone: Enter to start, Enter again to stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg, log, svc, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer log.Sync()

			species, profile, err := pet.profile()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := &terminal{out: out, species: string(species), done: make(chan struct{}, 1)}
			judge := func(ctx context.Context, clip capture.Clip) (*model.Judgment, error) {
				fmt.Fprintln(out, "\nListening closely...")
				return svc.Translate(ctx, clip, species, profile)
			}

			ctrl := recording.NewController(
				recording.ConfigFrom(cfg.Recording),
				capture.NewCommandRecorder(cfg.Capture, nil),
				judge, printer, nil, log.Named("recording"),
			)
			defer ctrl.Close()

			fmt.Fprintln(out, "Press Enter to start recording, Enter again to stop. Type q to quit.")
			return loop(ctx, cmd.InOrStdin(), ctrl, printer)
		},
	}
}

func loop(ctx context.Context, in io.Reader, ctrl *recording.Controller, printer *terminal) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "q" {
				return nil
			}
			switch ctrl.State() {
			case recording.Idle:
				printer.drain()
				err := ctrl.Press(ctx)
				if errors.Is(err, capture.ErrPermission) {
					fmt.Fprintln(printer.out, "Microphone access is required to translate. Check your capture command.")
					continue
				}
				if err != nil {
					fmt.Fprintln(printer.out, err)
				}
			case recording.Pressed:
				if err := ctrl.Release(); errors.Is(err, recording.ErrTooShort) {
					continue
				}
				// 等翻译结果出来再接受下一次按键
				select {
				case <-printer.done:
				case <-ctx.Done():
					return nil
				}
			default:
				fmt.Fprintln(printer.out, "Still thinking...")
			}
		}
	}
}

// terminal 把控制器事件打印到终端
type terminal struct {
	out     io.Writer
	species string
	done    chan struct{}
}

func (t *terminal) OnState(recording.State) {}

func (t *terminal) OnProgress(p recording.Progress) {
	width := 30
	filled := int(p.Fraction * float64(width))
	fmt.Fprintf(t.out, "\r[%s%s] %.1fs left ", strings.Repeat("#", filled), strings.Repeat(".", width-filled), p.Remaining.Seconds())
}

func (t *terminal) OnNotice(text string) {
	if text != "" {
		fmt.Fprintln(t.out, "\n"+text)
	}
}

func (t *terminal) OnOutcome(o recording.Outcome) {
	switch o.Kind {
	case recording.TooShort:
		return
	case recording.Failed:
		fmt.Fprintln(t.out, "AI couldn't hear that clearly. Try again?")
	case recording.NoSound:
		fmt.Fprintf(t.out, "No %s sound detected. Please try again!\n", t.species)
	case recording.Judged:
		printJudgment(t.out, o.Judgment)
	}
	select {
	case t.done <- struct{}{}:
	default:
	}
}

// drain 丢弃超时自动提交留下的完成信号
func (t *terminal) drain() {
	select {
	case <-t.done:
	default:
	}
}

func printJudgment(out io.Writer, j *model.Judgment) {
	fmt.Fprintf(out, "Emotion:     %s\n", j.Emotion)
	fmt.Fprintf(out, "Translation: %s\n", j.Explanation)
	fmt.Fprintf(out, "Advice:      %s\n", j.Advice)
	if j.ImageURL != "" {
		fmt.Fprintln(out, "(illustration generated)")
	}
}
