package di

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircularDependencyDetection(t *testing.T) {
	container := NewServiceContainer(nil)

	container.RegisterSingleton("serviceA", func(resolver DependencyResolver) (interface{}, error) {
		return resolver.Get("serviceB")
	})
	container.RegisterSingleton("serviceB", func(resolver DependencyResolver) (interface{}, error) {
		return resolver.Get("serviceA")
	})

	_, err := container.Get("serviceA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestConcurrentSingletonCreation(t *testing.T) {
	container := NewServiceContainer(nil)

	var created int32
	container.RegisterSingleton("expensive", func(DependencyResolver) (interface{}, error) {
		atomic.AddInt32(&created, 1)
		time.Sleep(10 * time.Millisecond)
		return &testService{name: "expensive"}, nil
	})

	const goroutines = 50
	results := make([]interface{}, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = container.Get("expensive")
		}(i)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("singleton creation deadlocked")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestFailedSingletonIsRetried(t *testing.T) {
	container := NewServiceContainer(nil)

	var calls int32
	container.RegisterSingleton("flaky", func(DependencyResolver) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("first call fails")
		}
		return &testService{}, nil
	})

	_, err := container.Get("flaky")
	require.Error(t, err)

	service, err := container.Get("flaky")
	require.NoError(t, err)
	assert.NotNil(t, service)
}

func TestDependencyChain(t *testing.T) {
	container := NewServiceContainer(nil)

	container.RegisterSingleton("level1", func(DependencyResolver) (interface{}, error) {
		return &testService{name: "1"}, nil
	})
	container.RegisterSingleton("level2", func(r DependencyResolver) (interface{}, error) {
		return &testService{name: r.MustGet("level1").(*testService).name + "2"}, nil
	})
	container.RegisterSingleton("level3", func(r DependencyResolver) (interface{}, error) {
		return &testService{name: r.MustGet("level2").(*testService).name + "3"}, nil
	})

	service, err := container.Get("level3")
	require.NoError(t, err)
	assert.Equal(t, "123", service.(*testService).name)
}
