package playback_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/history"
	"github.com/san-kum/algoviz/internal/playback"
	"github.com/san-kum/algoviz/internal/runner"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// bubble publishes one labelled swap per out-of-order adjacent pair.
var bubble = runner.Func(func(env runner.Env) error {
	d := env.Data
	for i := 0; i < len(d); i++ {
		for j := 0; j < len(d)-i-1; j++ {
			if env.Cancelled() {
				return nil
			}
			if d[j].Value > d[j+1].Value {
				env.Step(fmt.Sprintf("swap %g and %g", d[j].Value, d[j+1].Value))
				d.Swap(j, j+1)
				env.Publish(d)
				env.Pause(1)
				if env.Cancelled() {
					return nil
				}
			}
		}
	}
	return nil
})

// spin publishes a counter every pause until cancelled.
var spin = runner.Func(func(env runner.Env) error {
	d := env.Data
	for n := 1; ; n++ {
		if env.Cancelled() {
			return nil
		}
		d[0].Value = float64(n)
		env.Publish(d)
		env.Pause(1)
	}
})

type notifications struct {
	mu   sync.Mutex
	list []playback.Notification
}

func (n *notifications) add(x playback.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, x)
}

func (n *notifications) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.list)
}

type transitions struct {
	mu    sync.Mutex
	seen  []playback.State
	index []int
}

func (t *transitions) OnSnapshot(_ string, s history.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index = append(t.index, s.Index)
}

func (t *transitions) OnTransition(_ string, _, to playback.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = append(t.seen, to)
}

func startAsync(c *playback.Controller) <-chan playback.Result {
	done := make(chan playback.Result, 1)
	go func() {
		defer GinkgoRecover()
		res, err := c.Start(context.Background())
		Expect(err).NotTo(HaveOccurred())
		done <- res
	}()
	Eventually(c.State).Should(Equal(playback.StateRunning))
	return done
}

var _ = Describe("Controller", func() {
	var (
		c      *playback.Controller
		notes  *notifications
		tracer *transitions
	)

	BeforeEach(func() {
		notes = &notifications{}
		tracer = &transitions{}
		c = playback.New(playback.Config{
			Speed:     0,
			Logger:    quietLogger,
			Notifier:  notes.add,
			Observers: []playback.Observer{tracer},
		})
	})

	Describe("a completed run", func() {
		BeforeEach(func() {
			Expect(c.Load(bubble, "bubble", dataset.FromValues(5, 3, 8, 1))).To(Succeed())
		})

		It("sorts the data and records every swap", func() {
			res, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(playback.StateCompleted))

			v := c.View()
			Expect(v.Data.Values()).To(Equal([]float64{1, 3, 5, 8}))
			Expect(v.State).To(Equal(playback.StateIdle))
			Expect(v.Outcome).To(Equal(playback.StateCompleted))
			Expect(v.Step).To(Equal(playback.CompletedLabel))

			// 4 swaps, each a label and a data publication, plus start and end
			Expect(v.Length).To(Equal(10))
			Expect(v.Length).To(BeNumerically(">=", 4+2))
			Expect(res.Snapshots).To(Equal(v.Length))
		})

		It("steps backward through the intermediate arrays", func() {
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(c.StepBackward()).To(BeTrue())
			v := c.View()
			Expect(v.Data.Values()).To(Equal([]float64{1, 3, 5, 8}))
			Expect(v.Step).To(Equal("swap 3 and 1"))

			// the label was published before the data, so it annotates the previous array
			Expect(c.StepBackward()).To(BeTrue())
			v = c.View()
			Expect(v.Data.Values()).To(Equal([]float64{3, 1, 5, 8}))
			Expect(v.Step).To(Equal("swap 3 and 1"))

			Expect(c.StepForward()).To(BeTrue())
			Expect(c.View().Data.Values()).To(Equal([]float64{1, 3, 5, 8}))
		})

		It("captures snapshots with strictly increasing indices", func() {
			before := c.History().Len()
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(c.History().Len()).To(BeNumerically(">=", before))

			tracer.mu.Lock()
			defer tracer.mu.Unlock()
			// first index is the Ready snapshot from Load
			for i := 1; i < len(tracer.index); i++ {
				if tracer.index[i] == 0 {
					continue
				}
				Expect(tracer.index[i]).To(Equal(tracer.index[i-1] + 1))
			}
		})

		It("starts and ends with the marker labels", func() {
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())

			steps := c.History().Steps()
			Expect(steps[0]).To(Equal(playback.StartLabel))
			Expect(steps[len(steps)-1]).To(Equal(playback.CompletedLabel))
			Expect(tracer.seen).To(Equal([]playback.State{
				playback.StateRunning, playback.StateCompleted, playback.StateIdle,
			}))
		})

		It("keeps the most recent labels first and capped", func() {
			c = playback.New(playback.Config{LogCapacity: 3, Logger: quietLogger})
			Expect(c.Load(bubble, "bubble", dataset.FromValues(5, 3, 8, 1))).To(Succeed())
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())

			log := c.View().Log
			Expect(log).To(HaveLen(3))
			Expect(log[0]).To(Equal(playback.CompletedLabel))
			Expect(log[1]).To(Equal("swap 3 and 1"))
		})
	})

	Describe("coalescing publications", func() {
		It("pairs a bare label with the previous data and bare data with the previous label", func() {
			r := runner.Func(func(env runner.Env) error {
				env.Step("intro")
				d := env.Data
				d[0].Value = 42
				env.Publish(d)
				return nil
			})
			Expect(c.Load(r, "coalesce", dataset.FromValues(1, 2))).To(Succeed())
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())

			h := c.History()
			Expect(h.Len()).To(Equal(4))

			intro, _ := h.At(1)
			Expect(intro.Step).To(Equal("intro"))
			Expect(intro.Data.Values()).To(Equal([]float64{1, 2}))

			mutated, _ := h.At(2)
			Expect(mutated.Step).To(Equal("intro"))
			Expect(mutated.Data.Values()).To(Equal([]float64{42, 2}))
		})
	})

	Describe("cancellation", func() {
		It("stops a slow run within one poll interval", func() {
			c.SetSpeed(500 * time.Millisecond)
			Expect(c.Load(spin, "spin", dataset.FromValues(0))).To(Succeed())

			done := startAsync(c)
			time.Sleep(50 * time.Millisecond)
			stopped := time.Now()
			c.Stop()

			var res playback.Result
			Eventually(done, 150*time.Millisecond).Should(Receive(&res))
			Expect(time.Since(stopped)).To(BeNumerically("<", 150*time.Millisecond))
			Expect(res.Outcome).To(Equal(playback.StateCancelled))

			v := c.View()
			Expect(v.State).To(Equal(playback.StateIdle))
			Expect(v.Outcome).To(Equal(playback.StateCancelled))
			Expect(v.Data[0].Value).To(Equal(1.0))
			Expect(c.History().Steps()[v.Length-1]).NotTo(Equal(playback.CompletedLabel))
		})

		It("keeps captured history navigable", func() {
			c.SetSpeed(5 * time.Millisecond)
			Expect(c.Load(spin, "spin", dataset.FromValues(0))).To(Succeed())

			done := startAsync(c)
			Eventually(func() int { return c.History().Len() }).Should(BeNumerically(">=", 4))
			c.Stop()
			Eventually(done).Should(Receive())

			length := c.History().Len()
			Expect(c.StepBackward()).To(BeTrue())
			Expect(c.History().Len()).To(Equal(length))
			Expect(c.View().CanStepForward).To(BeTrue())
		})

		It("treats context cancellation as a stop", func() {
			c.SetSpeed(10 * time.Millisecond)
			Expect(c.Load(spin, "spin", dataset.FromValues(0))).To(Succeed())

			ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
			defer cancel()
			res, err := c.Start(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(playback.StateCancelled))
		})

		It("does not carry a stop over into the next run", func() {
			for i := 0; i < 20; i++ {
				c.SetSpeed(5 * time.Millisecond)
				Expect(c.Load(spin, "spin", dataset.FromValues(0))).To(Succeed())
				done := startAsync(c)
				c.Stop()
				Eventually(done).Should(Receive())
				c.Stop()

				c.SetSpeed(0)
				Expect(c.Load(bubble, "bubble", dataset.FromValues(3, 1, 2))).To(Succeed())
				res, err := c.Start(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Outcome).To(Equal(playback.StateCompleted))
			}
		})

		It("ignores stop while idle", func() {
			Expect(c.Load(bubble, "bubble", dataset.FromValues(2, 1))).To(Succeed())
			c.Stop()
			res, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(playback.StateCompleted))
		})
	})

	Describe("while running", func() {
		var done <-chan playback.Result

		BeforeEach(func() {
			c.SetSpeed(10 * time.Millisecond)
			Expect(c.Load(spin, "spin", dataset.FromValues(0))).To(Succeed())
			done = startAsync(c)
		})

		AfterEach(func() {
			c.Stop()
			Eventually(done).Should(Receive())
		})

		It("ignores navigation", func() {
			Eventually(func() int { return c.History().Len() }).Should(BeNumerically(">=", 3))
			cursor := c.History().Cursor()

			Expect(c.StepForward()).To(BeFalse())
			Expect(c.StepBackward()).To(BeFalse())
			Expect(c.Seek(0)).To(BeFalse())
			Expect(c.History().Cursor()).To(BeNumerically(">=", cursor))

			v := c.View()
			Expect(v.CanStepForward).To(BeFalse())
			Expect(v.CanStepBackward).To(BeFalse())
		})

		It("rejects a second start", func() {
			_, err := c.Start(context.Background())
			Expect(err).To(MatchError(playback.ErrAlreadyRunning))
		})

		It("rejects reset and custom data", func() {
			Expect(c.Reset()).To(MatchError(playback.ErrRunning))
			Expect(c.InjectCustomData(dataset.FromValues(9))).To(MatchError(playback.ErrRunning))
			Expect(c.Load(bubble, "bubble", dataset.FromValues(1))).To(MatchError(playback.ErrRunning))
		})
	})

	Describe("runner faults", func() {
		It("fails without touching captured history and notifies once", func() {
			boom := errors.New("boom")
			r := runner.Func(func(env runner.Env) error {
				d := env.Data
				for i := 0; i < 3; i++ {
					d[0].Value = float64(i + 10)
					env.Publish(d)
				}
				return boom
			})
			Expect(c.Load(r, "faulty", dataset.FromValues(0))).To(Succeed())

			res, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(playback.StateFailed))
			Expect(res.Err).To(MatchError(boom))

			Expect(c.History().Len()).To(Equal(3 + 1))
			Expect(c.State()).To(Equal(playback.StateIdle))
			Expect(c.View().Outcome).To(Equal(playback.StateFailed))
			Expect(notes.count()).To(Equal(1))
			Expect(notes.list[0].Level).To(Equal(playback.LevelError))

			Expect(c.StepBackward()).To(BeTrue())
			Expect(c.View().Data[0].Value).To(Equal(11.0))
		})

		It("recovers a panicking runner", func() {
			r := runner.Func(func(env runner.Env) error { panic("index out of range") })
			Expect(c.Load(r, "panicky", dataset.FromValues(0))).To(Succeed())

			res, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(playback.StateFailed))

			var pe *runner.PanicError
			Expect(errors.As(res.Err, &pe)).To(BeTrue())
			Expect(notes.count()).To(Equal(1))
		})

		It("does not fail a run that returns ErrCancelled", func() {
			r := runner.Func(func(env runner.Env) error { return runner.ErrCancelled })
			Expect(c.Load(r, "quits", dataset.FromValues(0))).To(Succeed())

			res, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(playback.StateCancelled))
			Expect(notes.count()).To(BeZero())
		})
	})

	Describe("navigation bounds", func() {
		BeforeEach(func() {
			Expect(c.Load(bubble, "bubble", dataset.FromValues(2, 1))).To(Succeed())
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("does nothing past the last snapshot", func() {
			before := c.View()
			Expect(c.StepForward()).To(BeFalse())
			Expect(c.View()).To(Equal(before))
		})

		It("does nothing before the first snapshot", func() {
			Expect(c.Seek(0)).To(BeTrue())
			before := c.View()
			Expect(before.CanStepBackward).To(BeFalse())
			Expect(c.StepBackward()).To(BeFalse())
			Expect(c.View()).To(Equal(before))
		})

		It("seeks idempotently", func() {
			Expect(c.Seek(1)).To(BeTrue())
			first := c.View()
			Expect(c.Seek(1)).To(BeTrue())
			Expect(c.View()).To(Equal(first))
			Expect(first.Cursor).To(Equal(1))
			Expect(c.Seek(99)).To(BeFalse())
		})
	})

	Describe("replacing data", func() {
		BeforeEach(func() {
			Expect(c.Load(bubble, "bubble", dataset.FromValues(3, 2, 1))).To(Succeed())
		})

		It("resets to the loaded data with a single snapshot", func() {
			_, err := c.Start(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Reset()).To(Succeed())
			v := c.View()
			Expect(v.Data.Values()).To(Equal([]float64{3, 2, 1}))
			Expect(v.Length).To(Equal(1))
			Expect(v.Step).To(Equal(playback.ReadyLabel))
		})

		It("injects valid custom data", func() {
			Expect(c.InjectCustomData(dataset.FromValues(9, 7))).To(Succeed())
			v := c.View()
			Expect(v.Data.Values()).To(Equal([]float64{9, 7}))
			Expect(v.Length).To(Equal(1))

			Expect(c.Reset()).To(Succeed())
			Expect(c.View().Data.Values()).To(Equal([]float64{9, 7}))
		})

		It("rejects malformed custom data and keeps the live set", func() {
			bad := dataset.DataSet{{ID: "a", Neighbors: []dataset.Neighbor{{ID: "missing"}}}}
			err := c.InjectCustomData(bad)
			Expect(err).To(MatchError(dataset.ErrDanglingNeighbor))
			Expect(c.View().Data.Values()).To(Equal([]float64{3, 2, 1}))
		})
	})

	Describe("speed", func() {
		It("clamps negative speeds", func() {
			c.SetSpeed(-time.Second)
			Expect(c.Speed()).To(BeZero())
		})

		It("applies to pauses issued after the change", func() {
			c.SetSpeed(time.Hour)
			Expect(c.Load(spin, "spin", dataset.FromValues(0))).To(Succeed())

			done := startAsync(c)
			Eventually(func() int { return c.History().Len() }).Should(Equal(2))
			c.SetSpeed(0)
			// the in-flight one-hour pause only ends on stop
			Consistently(func() int { return c.History().Len() }, 120*time.Millisecond).Should(Equal(2))
			c.Stop()
			Eventually(done).Should(Receive())
		})
	})

	It("refuses to start without an algorithm", func() {
		_, err := c.Start(context.Background())
		Expect(err).To(MatchError(playback.ErrNoRunner))
	})
})

var _ = Describe("Compare", func() {
	It("runs every entry independently", func() {
		failing := runner.Func(func(env runner.Env) error { return errors.New("nope") })
		results, err := playback.Compare(context.Background(), []playback.Entry{
			{Name: "bubble", Runner: bubble},
			{Name: "failing", Runner: failing},
		}, dataset.FromValues(4, 2, 3, 1), playback.Config{Logger: quietLogger})

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].Name).To(Equal("bubble"))
		Expect(results[0].Outcome).To(Equal(playback.StateCompleted))
		Expect(results[0].Final.Values()).To(Equal([]float64{1, 2, 3, 4}))
		Expect(results[1].Outcome).To(Equal(playback.StateFailed))
	})

	It("rejects invalid input", func() {
		_, err := playback.Compare(context.Background(), []playback.Entry{
			{Name: "bubble", Runner: bubble},
		}, dataset.DataSet{}, playback.Config{Logger: quietLogger})
		Expect(err).To(MatchError(dataset.ErrEmpty))
	})
})
