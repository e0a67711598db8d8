package workers

import (
	"fmt"

	"github.com/incognitochain/lockdrop-workers/utils"
	"github.com/sirupsen/logrus"
)

type WorkerAbs struct {
	ID        int
	Name      string
	Frequency int // in sec
	Quit      chan bool
	Network   string // mainnet, testnet, ...
	Logger    *logrus.Entry
	AlertURL  string
}

type Worker interface {
	Execute()
	GetName() string
	GetFrequency() int
	GetQuitChan() chan bool
	GetNetwork() string
}

func (a *WorkerAbs) Init(id int, name string, freq int, network string, alertURL string) error {
	if freq <= 0 {
		return fmt.Errorf("worker %s: frequency must be positive, got %d", name, freq)
	}
	a.ID = id
	a.Name = name
	a.Frequency = freq
	a.Network = network
	a.AlertURL = alertURL
	a.Quit = make(chan bool)
	a.Logger = logrus.WithFields(logrus.Fields{
		"worker":  name,
		"network": network,
	})
	return nil
}

func (a *WorkerAbs) Execute() {
	a.Logger.Info("Abstract worker is executing...")
}

func (a *WorkerAbs) ExportErrorLog(msg string) {
	a.Logger.Error(msg)
	if err := utils.SendSlackNotification(a.AlertURL, fmt.Sprintf("[%s] %s", a.Name, msg)); err != nil {
		a.Logger.Warnf("Could not send alert - with err: %v", err)
	}
}

func (a *WorkerAbs) ExportInfoLog(msg string) {
	a.Logger.Info(msg)
}

func (a *WorkerAbs) GetName() string {
	return a.Name
}

func (a *WorkerAbs) GetFrequency() int {
	return a.Frequency
}

func (a *WorkerAbs) GetQuitChan() chan bool {
	return a.Quit
}

func (a *WorkerAbs) GetNetwork() string {
	return a.Network
}
