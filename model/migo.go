package model

import (
	"fmt"

	"github.com/nickng/dinephil/philosopher"
	"github.com/nickng/migo/v3"
)

// Function names of the MiGo program.
const (
	MainFunc        = "main.main"
	ForkFunc        = "main.fork"
	PhilosopherFunc = "main.phil"
)

// name is a plain MiGo variable name.
type name string

func (n name) Name() string   { return string(n) }
func (n name) String() string { return string(n) }

func forkChan(i int) name { return name(fmt.Sprintf("fork%d", i)) }

// NewMigo builds a MiGo program of the dinner where every fork is an
// unbuffered channel served by its own goroutine:
//
//	def main.fork(f): send f; recv f; call main.fork(f);
//	def main.phil(first, second): recv first; recv second; tau; send first; send second;
func NewMigo(seating []philosopher.Descriptor, forks int, order philosopher.Order) *migo.Program {
	prog := migo.NewProgram()

	mainFn := migo.NewFunction(MainFunc)
	for i := 0; i < forks; i++ {
		mainFn.AddStmts(&migo.NewChanStatement{Name: forkChan(i), Chan: forkChan(i).String(), Size: 0})
	}
	for i := 0; i < forks; i++ {
		spawn := &migo.SpawnStatement{Name: ForkFunc, Params: []*migo.Parameter{}}
		spawn.AddParams(&migo.Parameter{Caller: forkChan(i), Callee: name("f")})
		mainFn.AddStmts(spawn)
	}
	for _, d := range seating {
		first, second := order.Sequence(d)
		spawn := &migo.SpawnStatement{Name: PhilosopherFunc, Params: []*migo.Parameter{}}
		spawn.AddParams(&migo.Parameter{Caller: forkChan(first), Callee: name("first")})
		spawn.AddParams(&migo.Parameter{Caller: forkChan(second), Callee: name("second")})
		mainFn.AddStmts(spawn)
	}
	prog.AddFunction(mainFn)

	fork := migo.NewFunction(ForkFunc)
	fork.AddParams(&migo.Parameter{Caller: name("f"), Callee: name("f")})
	loop := &migo.CallStatement{Name: ForkFunc, Params: []*migo.Parameter{}}
	loop.AddParams(&migo.Parameter{Caller: name("f"), Callee: name("f")})
	fork.AddStmts(&migo.SendStatement{Chan: "f"})
	fork.AddStmts(&migo.RecvStatement{Chan: "f"})
	fork.AddStmts(loop)
	prog.AddFunction(fork)

	phil := migo.NewFunction(PhilosopherFunc)
	phil.AddParams(&migo.Parameter{Caller: name("first"), Callee: name("first")})
	phil.AddParams(&migo.Parameter{Caller: name("second"), Callee: name("second")})
	for _, stmt := range []migo.Statement{
		&migo.RecvStatement{Chan: "first"},
		&migo.RecvStatement{Chan: "second"},
		&migo.TauStatement{},
		&migo.SendStatement{Chan: "first"},
		&migo.SendStatement{Chan: "second"},
	} {
		phil.AddStmts(stmt)
	}
	prog.AddFunction(phil)

	return prog
}
