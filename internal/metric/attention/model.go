package attention

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/MarcWong/aim/internal/imaging"
)

// ModelConfig locates the attention checkpoint and names its tensors.
type ModelConfig struct {
	LibraryPath string
	ModelPath   string
	InputName   string
	OutputName  string
	// Native output resolution of the model, per duration slice.
	OutRows, OutCols int
}

// Predictor runs the attention model over one preprocessed frame and
// returns one heatmap plane per viewing duration, at the model's native
// output resolution, in fixed duration order.
type Predictor interface {
	Predict(ctx context.Context, frame []float32) ([NumDurations]imaging.Plane, error)
}

// onnxPredictor loads the checkpoint fresh for every call and releases the
// backend session before returning. Reloading per call trades latency for
// bounded peak memory in a shared-process server, and sidesteps any
// question of session reentrancy under concurrent invocations.
type onnxPredictor struct {
	cfg ModelConfig
}

// NewPredictor returns the ONNX-backed attention predictor.
func NewPredictor(cfg ModelConfig) Predictor {
	return &onnxPredictor{cfg: cfg}
}

var runtimeInit struct {
	once sync.Once
	err  error
}

// ensureRuntime initializes the ONNX runtime environment once per process.
// Sessions, by contrast, are strictly per call.
func ensureRuntime(libraryPath string) error {
	runtimeInit.once.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		runtimeInit.err = ort.InitializeEnvironment()
	})
	return runtimeInit.err
}

func (p *onnxPredictor) Predict(ctx context.Context, frame []float32) ([NumDurations]imaging.Plane, error) {
	var empty [NumDurations]imaging.Plane

	if err := ensureRuntime(p.cfg.LibraryPath); err != nil {
		return empty, fmt.Errorf("onnx runtime init: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return empty, err
	}
	if len(frame) != ShapeRows*ShapeCols*3 {
		return empty, fmt.Errorf("frame has %d values, want %d", len(frame), ShapeRows*ShapeCols*3)
	}

	input, err := ort.NewTensor(ort.NewShape(1, ShapeRows, ShapeCols, 3), frame)
	if err != nil {
		return empty, fmt.Errorf("input tensor: %w", err)
	}
	defer input.Destroy()

	outRows, outCols := p.cfg.OutRows, p.cfg.OutCols
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, NumDurations, int64(outRows), int64(outCols), 1))
	if err != nil {
		return empty, fmt.Errorf("output tensor: %w", err)
	}
	defer output.Destroy()

	session, err := ort.NewAdvancedSession(
		p.cfg.ModelPath,
		[]string{p.cfg.InputName},
		[]string{p.cfg.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		return empty, fmt.Errorf("load model %s: %w", p.cfg.ModelPath, err)
	}
	defer session.Destroy()

	if err := session.Run(); err != nil {
		return empty, fmt.Errorf("predict: %w", err)
	}

	data := output.GetData()
	sliceLen := outRows * outCols
	if len(data) < NumDurations*sliceLen {
		return empty, fmt.Errorf("model output has %d values, want %d", len(data), NumDurations*sliceLen)
	}

	var planes [NumDurations]imaging.Plane
	for t := 0; t < NumDurations; t++ {
		plane := imaging.NewPlane(outCols, outRows)
		copy(plane.Pix, data[t*sliceLen:(t+1)*sliceLen])
		planes[t] = plane
	}
	return planes, nil
}
