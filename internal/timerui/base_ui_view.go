package timerui

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/safego"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
)

// BaseUIView contains the base logic shared by all UI implementations
type BaseUIView struct {
	uiViewImpl   UIViewImpl
	uiModel      *UIModel
	uiController *UIController
	context      context.Context
	cancelFunc   context.CancelFunc
	waitGroup    sync.WaitGroup
	logger       *log.Logger
}

// NewBaseUIViewArg holds the arguments for creating a new BaseUIView
type NewBaseUIViewArg struct {
	UIViewImpl   UIViewImpl
	UIModel      *UIModel
	UIController *UIController
	Catalog      *catalog.Catalog
	Logger       *log.Logger
}

// NewBaseUIView creates a new BaseUIView with the given implementation
func NewBaseUIView(args NewBaseUIViewArg) *BaseUIView {
	if args.Logger == nil {
		panic("BaseUIView: logger cannot be nil")
	}
	if args.UIViewImpl == nil {
		panic("BaseUIView: UIViewImpl cannot be nil")
	}
	if args.UIModel == nil {
		panic("BaseUIView: UIModel cannot be nil")
	}
	if args.UIController == nil {
		panic("BaseUIView: UIController cannot be nil")
	}
	if args.Catalog == nil {
		panic("BaseUIView: catalog cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseUIView{
		uiViewImpl:   args.UIViewImpl,
		uiModel:      args.UIModel,
		uiController: args.UIController,
		context:      ctx,
		cancelFunc:   cancel,
		logger:       args.Logger,
	}

	args.UIViewImpl.Initialize(args.UIController)
	args.UIViewImpl.SetupKeyboardHandlers(args.UIController)

	// Seed the widgets from the model before any event arrives
	args.UIViewImpl.SetWorkoutList(args.Catalog.Workouts())
	args.UIViewImpl.SetMode(args.UIModel.GetUIState().Mode)
	args.UIViewImpl.UpdateTimerState(args.UIModel.GetTimerState())
	args.UIViewImpl.UpdateSettings(args.UIModel.GetSettings())

	base.waitGroup.Add(1)
	safego.Go(base.logger, func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

// listen runs handle for every value the model pushes on ch until the view
// shuts down, then unregisters.
func listen[T any](base *BaseUIView, ch chan T, unregister func(), handle func(T)) {
	base.waitGroup.Add(1)
	safego.Go(base.logger, func() {
		defer base.waitGroup.Done()
		defer unregister()
		for {
			select {
			case <-base.context.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				handle(v)
			}
		}
	})
}

func (base *BaseUIView) setupEventListeners() {
	logChan := make(chan string, 1)
	listen(base, logChan, base.uiModel.ListenToLog(logChan), func(string) {
		// When a new log arrives, update the display to show the tail
		base.updateLogDisplay()
		base.draw()
	})

	uiStateChan := make(chan UIState, 1)
	listen(base, uiStateChan, base.uiModel.ListenToUIState(uiStateChan), func(state UIState) {
		base.uiViewImpl.SetMode(state.Mode)
		base.draw()
	})

	timerChan := make(chan TimerState, 1)
	listen(base, timerChan, base.uiModel.ListenToTimerState(timerChan), func(state TimerState) {
		base.uiViewImpl.UpdateTimerState(state)
		base.draw()
	})

	settingsChan := make(chan settings.Settings, 1)
	listen(base, settingsChan, base.uiModel.ListenToSettings(settingsChan), func(s settings.Settings) {
		base.uiViewImpl.UpdateSettings(s)
		base.draw()
	})

	// Close is one-shot: stop the UI implementation and let Run return
	closeChan := make(chan struct{}, 1)
	closeUnregister := base.uiModel.ListenToCloseApplication(closeChan)
	base.waitGroup.Add(1)
	safego.Go(base.logger, func() {
		defer base.waitGroup.Done()
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			base.uiViewImpl.Stop()
		}
	})
}

func (base *BaseUIView) draw() {
	if err := base.uiViewImpl.Draw(); err != nil {
		base.logger.Printf("BaseUIView: Error drawing: %v", err)
	}
}

func (base *BaseUIView) updateLogDisplay() {
	height := base.uiViewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	logLines := base.uiModel.GetLogTail(height)

	base.uiViewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.uiViewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseUIView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseUIView) monitorLogResize() {
	defer base.waitGroup.Done()
	var lastHeight int
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.uiViewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				base.draw()
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish
func (base *BaseUIView) Shutdown() {
	base.logger.Println("BaseUIView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseUIView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseUIView) Run() error {
	return base.uiViewImpl.Run()
}
