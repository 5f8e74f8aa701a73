package experiment

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/geometry"
	"github.com/san-kum/ljsim/internal/sim"
)

func TestLattice(t *testing.T) {
	g := NewWithT(t)

	c, err := Lattice(8, 20)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c).To(HaveLen(8))
	g.Expect(c[0]).To(Equal(dynamo.Vec3{5, 5, 5}))
	g.Expect(c[7]).To(Equal(dynamo.Vec3{15, 15, 15}))

	for i := range c {
		for j := 0; j < i; j++ {
			g.Expect(geometry.PBCDistance(c[i], c[j], 20)).To(BeNumerically(">=", 10-1e-12))
		}
	}
}

func TestLattice_PartialShell(t *testing.T) {
	g := NewWithT(t)
	c, err := Lattice(10, 30)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c).To(HaveLen(10))
	for _, p := range c {
		for _, x := range p {
			g.Expect(x).To(And(BeNumerically(">", 0), BeNumerically("<", 30)))
		}
	}
}

func TestLattice_Invalid(t *testing.T) {
	if _, err := Lattice(0, 10); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Lattice(4, -1); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	names := r.ListEngines()
	if len(names) != 2 || names[0] != "mc" || names[1] != "md" {
		t.Errorf("expected [mc md], got %v", names)
	}
	_, err := r.GetEngine("bd", sim.Params{}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown engine")
	}
	if !strings.Contains(err.Error(), "[mc md]") {
		t.Errorf("expected the available engines in %q", err.Error())
	}
}

func TestDefaultMetrics(t *testing.T) {
	r := NewRegistry()
	has := func(ms []sim.Metric, name string) bool {
		for _, m := range ms {
			if m.Name() == name {
				return true
			}
		}
		return false
	}
	if !has(r.DefaultMetrics("md"), "energy_drift") {
		t.Error("md metrics should include energy_drift")
	}
	if !has(r.DefaultMetrics("mc"), "acceptance_ratio") {
		t.Error("mc metrics should include acceptance_ratio")
	}
}

func setup(t *testing.T, cfg *config.Config) *Experiment {
	t.Helper()
	ec, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	r := NewRegistry()
	e := New(ec)
	if err := e.Setup(r, r.DefaultMetrics(ec.Engine)); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return e
}

func TestRun_MD(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset("md", "lattice")
	cfg.Steps = 20
	cfg.Seed = 3

	e := setup(t, cfg)
	var seen int
	e.AddObserver(func(sim.Sample) { seen++ })

	res, err := e.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(seen).To(Equal(20))
	g.Expect(res.Engine).To(Equal("md"))
	g.Expect(res.StepsTaken).To(Equal(20))
	g.Expect(res.Potential).To(HaveLen(20))
	g.Expect(res.Trajectories[0]).To(HaveLen(8))
	g.Expect(res.Metrics).To(HaveKey("energy_drift"))
	g.Expect(res.Metrics["stability"]).To(Equal(1.0))
	g.Expect(e.Seed()).To(Equal(int64(3)))
}

func TestRun_MC(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset("mc", "dilute")
	cfg.Steps = 50
	cfg.Seed = 9

	res, err := setup(t, cfg).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Engine).To(Equal("mc"))
	g.Expect(res.Accepted).To(HaveLen(50))
	g.Expect(res.Metrics["acceptance_ratio"]).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
	g.Expect(math.IsNaN(res.Metrics["mean_potential"])).To(BeFalse())
}

func TestRun_Reproducible(t *testing.T) {
	g := NewWithT(t)
	run := func() *sim.Result {
		cfg := config.GetPreset("mc", "hot")
		cfg.Steps = 30
		cfg.Seed = 77
		res, err := setup(t, cfg).Run(context.Background())
		g.Expect(err).NotTo(HaveOccurred())
		return res
	}
	a, b := run(), run()
	g.Expect(a.Potential).To(Equal(b.Potential))
	g.Expect(a.Accepted).To(Equal(b.Accepted))
}

func TestRun_ExplicitTopology(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset("md", "pair")
	cfg.Steps = 5
	cfg.Seed = 1

	res, err := setup(t, cfg).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Trajectories[0]).To(Equal(dynamo.Configuration{{5, 5, 5}, {8.8164, 5, 5}}))
}

func TestRun_Cancelled(t *testing.T) {
	cfg := config.GetPreset("md", "lattice")
	cfg.Seed = 5
	e := setup(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	e.AddObserver(func(sim.Sample) {
		n++
		if n == 3 {
			cancel()
		}
	})

	res, err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.StepsTaken != 3 {
		t.Errorf("expected 3 steps before cancel, got %d", res.StepsTaken)
	}
}

func TestRun_NotSetup(t *testing.T) {
	e := New(Config{Engine: "md"})
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestSetup_MissingParameter(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine = "mc"
	cfg.Params.Temperature = ""
	cfg.Seed = 1

	ec, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	r := NewRegistry()
	err = New(ec).Setup(r, nil)

	var cerr *dynamo.ConfigurationError
	if !errors.As(err, &cerr) || cerr.Parameter != "temperature" {
		t.Errorf("expected unset temperature, got %v", err)
	}
}

func TestObserve_ExternalStepping(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset("mc", "dilute")
	cfg.Seed = 4
	e := setup(t, cfg)

	for i := 0; i < 10; i++ {
		s, err := e.Engine().Step()
		g.Expect(err).NotTo(HaveOccurred())
		e.Observe(s)
	}
	res := e.Result()
	g.Expect(res.StepsTaken).To(Equal(10))
	g.Expect(res.Metrics).To(HaveKey("acceptance_ratio"))
	g.Expect(res.Metrics["mean_potential"]).To(BeNumerically("~", meanOf(res.Potential), 1e-9))
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func TestFromConfig_YAMLTopologyWithoutCount(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "pair.yaml")
	data := `engine: mc
steps: 5
seed: 3
system_size: 20
topology:
  - [5, 5, 5]
  - [8.8164, 5, 5]
`
	g.Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

	c, err := config.Load(path)
	g.Expect(err).NotTo(HaveOccurred())

	for _, engine := range []string{"mc", "md"} {
		c.Engine = engine
		ec, err := FromConfig(c, nil)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ec.Params.NParticles).To(Equal(2))

		r := NewRegistry()
		exp := New(ec)
		g.Expect(exp.Setup(r, r.DefaultMetrics(engine))).To(Succeed())

		res, err := exp.Run(context.Background())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(res.StepsTaken).To(Equal(5))
		g.Expect(res.Trajectories[0]).To(Equal(dynamo.Configuration{{5, 5, 5}, {8.8164, 5, 5}}))
	}
}
