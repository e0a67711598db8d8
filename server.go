package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/incognitochain/lockdrop-workers/workers"
	"github.com/sirupsen/logrus"
)

type Server struct {
	quit    chan os.Signal
	finish  chan bool
	workers []workers.Worker
	http    *http.Server
	logger  *logrus.Entry
}

// NewServer runs the given workers and, if handler is set, serves it on addr.
func NewServer(listWorkers []workers.Worker, addr string, handler http.Handler) *Server {
	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)

	s := &Server{
		quit:    quitChan,
		finish:  make(chan bool, len(listWorkers)),
		workers: listWorkers,
		logger:  logrus.WithFields(logrus.Fields{"component": "server"}),
	}
	if handler != nil {
		s.http = &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return s
}

func (s *Server) NotifyQuitSignal(workers []workers.Worker) {
	sig := <-s.quit
	s.logger.Infof("Caught sig: %+v", sig)
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Warnf("Could not shut down rpc server - with err: %v", err)
		}
		cancel()
	}
	// notify all workers about quit signal
	for _, a := range workers {
		a.GetQuitChan() <- true
	}
}

func (s *Server) Run() {
	workers := s.workers
	go s.NotifyQuitSignal(workers)
	if s.http != nil {
		go func() {
			s.logger.Infof("Serving rpc on %s", s.http.Addr)
			if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Errorf("Rpc server stopped - with err: %v", err)
			}
		}()
	}
	for _, a := range workers {
		go executeWorker(s.finish, a)
	}
}

// Wait blocks until every worker has finished.
func (s *Server) Wait() {
	for range s.workers {
		<-s.finish
	}
}

func executeWorker(finish chan bool, worker workers.Worker) {
	worker.Execute() // execute as soon as starting up
	for {
		select {
		case <-worker.GetQuitChan():
			fmt.Printf("Finishing task for %s ...\n", worker.GetName())
			time.Sleep(time.Second * 1)
			fmt.Printf("Task for %s done! \n", worker.GetName())
			finish <- true
			return
		case <-time.After(time.Duration(worker.GetFrequency()) * time.Second):
			worker.Execute()
		}
	}
}
