package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/gradaccum/internal/autodiff"
	"github.com/born-ml/gradaccum/internal/backend/cpu"
	"github.com/born-ml/gradaccum/internal/tensor"
)

func TestAutodiffBackend_NameDevice(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if got, want := backend.Name(), "Autodiff(CPU)"; got != want {
		t.Errorf("Name() = %s, want %s", got, want)
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
	if backend.Inner().Name() != "CPU" {
		t.Errorf("Inner().Name() = %s, want CPU", backend.Inner().Name())
	}
}

func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Fatal("tape should not record initially")
	}

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	a.Add(a)
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d before StartRecording, want 0", tape.NumOps())
	}

	tape.StartRecording()
	a.Add(a).Mul(a)
	if tape.NumOps() != 2 {
		t.Errorf("NumOps() = %d, want 2", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("NumOps() = %d after Clear, want 0", tape.NumOps())
	}
	// Clear keeps the recording state.
	if !tape.IsRecording() {
		t.Error("tape should still record after Clear")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("tape should not record after StopRecording")
	}
}

func TestInnerDoesNotRecord(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	backend.Inner().Add(a.Raw(), a.Raw())

	if backend.Tape().NumOps() != 0 {
		t.Errorf("inner backend recorded %d ops", backend.Tape().NumOps())
	}
}

func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// y = sum(x * x), dy/dx = 2x
	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	y := x.Mul(x).Sum()

	grads := autodiff.Backward(y, backend)

	grad := grads[x.Raw()]
	if grad == nil {
		t.Fatal("no gradient for x")
	}
	want := []float32{2, 4, 6}
	for i, v := range grad.AsFloat32() {
		if v != want[i] {
			t.Errorf("grad[%d] = %v, want %v", i, v, want[i])
		}
	}
	if !backend.Tape().IsRecording() {
		t.Error("Backward must restore the recording state")
	}
}

func TestBackward_SharedInputAccumulates(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// y = sum(x + x + 3x) = 5 * sum(x)
	x, _ := tensor.FromSlice([]float64{1, -1}, tensor.Shape{2}, backend)
	y := x.Add(x).Add(x.MulScalar(3)).Sum()

	grads := autodiff.Backward(y, backend)

	for i, v := range grads[x.Raw()].AsFloat64() {
		if v != 5 {
			t.Errorf("grad[%d] = %v, want 5", i, v)
		}
	}
}

func TestBackward_LinearLayer(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// loss = sum(x @ W^T + b), x: [2,3], W: [1,3], b: [1]
	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	w, _ := tensor.FromSlice([]float32{0.1, 0.2, 0.3}, tensor.Shape{1, 3}, backend)
	b, _ := tensor.FromSlice([]float32{0.5}, tensor.Shape{1}, backend)

	out := x.MatMul(w.T()).Add(b.Reshape(1, 1))
	loss := out.Sum()

	grads := autodiff.Backward(loss, backend)

	// dloss/dW = column sums of x, dloss/db = batch size.
	wantW := []float32{5, 7, 9}
	gw := grads[w.Raw()]
	if gw == nil || !gw.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("grad W shape = %v, want [1 3]", gw)
	}
	for i, v := range gw.AsFloat32() {
		if math.Abs(float64(v-wantW[i])) > 1e-5 {
			t.Errorf("grad W[%d] = %v, want %v", i, v, wantW[i])
		}
	}

	gb := grads[b.Raw()]
	if gb == nil || !gb.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("grad b = %v, want shape [1]", gb)
	}
	if gb.AsFloat32()[0] != 2 {
		t.Errorf("grad b = %v, want 2", gb.AsFloat32()[0])
	}
}

func TestBackward_EmptyTapePanics(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Backward on an empty tape should panic")
		}
	}()
	autodiff.Backward(x, backend)
}
