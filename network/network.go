// Package network simulates a packet-switched network of Intcode
// machines, with an optional NAT that wakes the network when it goes idle.
//
// Each node is a Machine running the same program. A node reads its
// address as its first input, then polls for packets: an input of -1 means
// its inbox is empty, otherwise it reads X and then Y. A node sends a packet
// by writing its destination address, X and Y. Address 255 is the NAT.
//
// The network runs in rounds. In each round every node runs until it asks
// for input that is not there, and every packet it sends is routed before
// the next node runs. This keeps runs deterministic.
package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nf/intcode/intcode"
)

// NAT is the address of the NAT.
const NAT = 255

var (
	ErrLivelock   = errors.New("NAT delivered the same Y value twice in a row")
	ErrDeadlock   = errors.New("network idle with nothing to deliver")
	ErrRoundLimit = errors.New("round limit exceeded")
	ErrStepLimit  = errors.New("node ran too long without asking for input")
	ErrHalted     = errors.New("all nodes halted")
	ErrNoRoute    = errors.New("no such address")
)

// RepeatError is returned when the NAT delivers the same Y value to node 0
// twice in a row.
type RepeatError struct {
	Y int64
}

func (e *RepeatError) Error() string {
	return fmt.Sprintf("%v: %d", ErrLivelock, e.Y)
}

func (e *RepeatError) Unwrap() error { return ErrLivelock }

// Packet is a message sent from one node to another.
type Packet struct {
	Src, Dest int64
	X, Y      int64
}

func (p Packet) String() string {
	return fmt.Sprintf("%d->%d (%d, %d)", p.Src, p.Dest, p.X, p.Y)
}

// Config holds the parameters of a network.
type Config struct {
	Size       int  // number of nodes; 50 if zero
	IdleRounds int  // consecutive idle rounds before the NAT acts; 2 if zero
	MaxRounds  int  // rounds before giving up; 1e6 if zero
	MaxSteps   int  // instructions a node may execute in one turn; 1<<20 if zero
	NAT        bool // whether packets to 255 are held by a NAT

	Logger *zap.Logger
}

const (
	DefaultSize       = 50
	DefaultIdleRounds = 2
	DefaultMaxRounds  = 1e6
	DefaultMaxSteps   = 1 << 20
)

// slice is the number of instructions a node runs between checks for
// cancellation.
const slice = 1 << 12

// Report describes a network run.
type Report struct {
	ID        string   // run identifier, also attached to every log entry
	First     Packet   // first packet sent to the NAT address
	Delivered []Packet // packets delivered by the NAT, in order
	Rounds    int
	Packets   int // packets routed between nodes, including to the NAT
}

type node struct {
	m       *intcode.Machine
	pending []int64 // output not yet forming a whole packet
}

// Network is a set of nodes and the NAT that watches them.
type Network struct {
	cfg   Config
	nodes []*node
	log   *zap.Logger

	nat     *Packet
	report  Report
	sentNAT bool
}

// New returns a network of cfg.Size nodes running prog.
func New(prog []int64, cfg Config, opts ...intcode.Option) *Network {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if cfg.IdleRounds <= 0 {
		cfg.IdleRounds = DefaultIdleRounds
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	id := uuid.NewString()
	n := &Network{
		cfg:    cfg,
		log:    cfg.Logger.With(zap.String("run", id)),
		report: Report{ID: id},
	}
	for i := 0; i < cfg.Size; i++ {
		o := append([]intcode.Option{intcode.WithInput(int64(i))}, opts...)
		n.nodes = append(n.nodes, &node{m: intcode.New(prog, o...)})
	}
	return n
}

// Run runs the network until it reaches an outcome.
//
// Without a NAT, Run returns after the first packet sent to address 255,
// which is reported as Report.First. With a NAT, Run continues until the
// NAT delivers the same Y value twice in a row, and returns a *RepeatError.
// An idle network that cannot be woken returns ErrDeadlock, and a node that
// runs for more than Config.MaxSteps instructions without asking for input
// ends the run with ErrStepLimit.
func (n *Network) Run(ctx context.Context) (Report, error) {
	n.log.Info("network starting",
		zap.Int("nodes", len(n.nodes)),
		zap.Bool("nat", n.cfg.NAT),
		zap.Int("idle_rounds", n.cfg.IdleRounds))
	idle := 0
	for n.report.Rounds < n.cfg.MaxRounds {
		if err := ctx.Err(); err != nil {
			return n.report, err
		}
		quiet, done, err := n.round(ctx)
		n.report.Rounds++
		if err != nil || done {
			return n.report, err
		}
		if !quiet {
			idle = 0
			continue
		}
		if idle++; idle < n.cfg.IdleRounds {
			continue
		}
		idle = 0
		if err := n.wake(); err != nil {
			return n.report, err
		}
	}
	return n.report, fmt.Errorf("%w after %d rounds", ErrRoundLimit, n.report.Rounds)
}

// round gives every live node one turn. It reports whether the round was
// quiet, with every node polling an empty inbox and no packet sent, and
// whether the run is over.
func (n *Network) round(ctx context.Context) (quiet, done bool, err error) {
	quiet = true
	live := 0
	for i, nd := range n.nodes {
		if nd.m.Halted() {
			continue
		}
		live++
		if nd.m.In.Len() == 0 {
			nd.m.PushInput(-1)
		} else {
			quiet = false
		}
		st, err := n.turn(ctx, nd.m)
		if err != nil {
			return false, true, fmt.Errorf("node %d: %w", i, err)
		}
		if st == intcode.Halted {
			n.log.Debug("node halted", zap.Int("node", i))
		}
		nd.pending = append(nd.pending, nd.m.Out.Drain()...)
		for len(nd.pending) >= 3 {
			p := Packet{Src: int64(i), Dest: nd.pending[0], X: nd.pending[1], Y: nd.pending[2]}
			nd.pending = nd.pending[3:]
			quiet = false
			if done, err := n.route(p); done || err != nil {
				return false, true, err
			}
		}
	}
	if live == 0 {
		return false, true, ErrHalted
	}
	return quiet, false, nil
}

// turn runs m until it asks for input or halts.
func (n *Network) turn(ctx context.Context, m *intcode.Machine) (intcode.Status, error) {
	for left := n.cfg.MaxSteps; left > 0; left -= slice {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		steps := slice
		if left < steps {
			steps = left
		}
		st, err := m.RunUntilInputN(steps)
		if err != nil || st != intcode.Continue {
			return st, err
		}
	}
	return 0, fmt.Errorf("%w after %d steps", ErrStepLimit, n.cfg.MaxSteps)
}

func (n *Network) route(p Packet) (done bool, err error) {
	n.report.Packets++
	switch {
	case p.Dest == NAT:
		n.log.Debug("packet to NAT", zap.Stringer("packet", p))
		if !n.sentNAT {
			n.sentNAT = true
			n.report.First = p
		}
		if !n.cfg.NAT {
			return true, nil
		}
		n.nat = &p
	case p.Dest >= 0 && p.Dest < int64(len(n.nodes)):
		n.log.Debug("packet", zap.Stringer("packet", p))
		n.nodes[p.Dest].m.PushInput(p.X, p.Y)
	default:
		return true, fmt.Errorf("node %d sent %v: %w", p.Src, p, ErrNoRoute)
	}
	return false, nil
}

// wake is called when the network has been idle long enough. The NAT, if
// any, sends the last packet it received to node 0.
func (n *Network) wake() error {
	if !n.cfg.NAT || n.nat == nil {
		n.log.Warn("network deadlocked", zap.Int("round", n.report.Rounds))
		return ErrDeadlock
	}
	p := Packet{Src: NAT, Dest: 0, X: n.nat.X, Y: n.nat.Y}
	n.nat = nil
	n.log.Info("NAT delivery", zap.Stringer("packet", p), zap.Int("round", n.report.Rounds))
	d := n.report.Delivered
	n.report.Delivered = append(d, p)
	n.nodes[0].m.PushInput(p.X, p.Y)
	if len(d) > 0 && d[len(d)-1].Y == p.Y {
		return &RepeatError{Y: p.Y}
	}
	return nil
}
