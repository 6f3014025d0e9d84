package grammar

import (
	"context"

	pool "github.com/jolestar/go-commons-pool"
)

// typeScratch holds the required types still waiting for a token during
// one filter step.
type typeScratch struct {
	pending []string
}

func (s *typeScratch) reset() {
	s.pending = s.pending[:0]
}

// The required-type check runs once per candidate production and
// collection; its scratch buffers are pooled.
type scratchPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalScratchPool *scratchPool

func init() {
	globalScratchPool = &scratchPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return &typeScratch{}, nil
		})
	globalScratchPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1
	config.BlockWhenExhausted = false
	globalScratchPool.opool = pool.NewObjectPool(globalScratchPool.ctx, factory, config)
}

func borrowScratch() *typeScratch {
	o, err := globalScratchPool.opool.BorrowObject(globalScratchPool.ctx)
	if err != nil {
		tracer().Errorf("cannot borrow a scratch buffer: %v", err)
		return &typeScratch{}
	}
	return o.(*typeScratch)
}

func (s *typeScratch) release() {
	s.reset()
	_ = globalScratchPool.opool.ReturnObject(globalScratchPool.ctx, s)
}
