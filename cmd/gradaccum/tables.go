package main

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/tensor"
	"github.com/born-ml/gradaccum/internal/train"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 0, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == lgtable.HeaderRow {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = evenRowStyle
			} else {
				s = oddRowStyle
			}
			if col == 0 {
				return s.Align(lipgloss.Right)
			}
			return s.Align(lipgloss.Left)
		})
}

func report(cfg train.Config, model nn.Module[backendType], losses []float32, windows []window) {
	var meanLoss float64
	for _, l := range losses {
		meanLoss += float64(l)
	}
	if len(losses) > 0 {
		meanLoss /= float64(len(losses))
	}

	fmt.Println(titleStyle.Render("Summary"))
	summary := newPlainTable(false)
	summary.Row("micro-batches", humanize.Comma(int64(len(losses))))
	summary.Row("accumulation steps", humanize.Comma(int64(cfg.AccumulationSteps)))
	summary.Row("windows released", humanize.Comma(int64(len(windows))))
	summary.Row("# parameters", humanize.Comma(int64(len(model.Parameters()))))
	summary.Row("mean loss", fmt.Sprintf("%.4f", meanLoss))
	fmt.Println(summary.Render())

	if len(windows) == 0 {
		return
	}

	names := parameterLabels(model)

	fmt.Println(titleStyle.Render("Merged gradients"))
	table := newPlainTable(true).Headers("Window", "Batches", "Parameter", "Shape", "Bytes", "L2 norm")
	for i, w := range windows {
		w.grads.Range(func(id nn.ParamID, grad *tensor.RawTensor) bool {
			table.Row(
				humanize.Comma(int64(i+1)),
				humanize.Comma(int64(w.microBatches)),
				names[id],
				grad.Shape().String(),
				humanize.Bytes(uint64(grad.ByteSize())),
				fmt.Sprintf("%.4g", l2Norm(grad)),
			)
			return true
		})
	}
	fmt.Println(table.Render())
}

// parameterLabels names each parameter "<layer>.<name>" when model is a
// Sequential, and by its own name otherwise.
func parameterLabels(model nn.Module[backendType]) map[nn.ParamID]string {
	labels := make(map[nn.ParamID]string)
	seq, ok := model.(*nn.Sequential[backendType])
	if !ok {
		for _, p := range model.Parameters() {
			labels[p.ID()] = p.Name()
		}
		return labels
	}
	for i := 0; i < seq.Len(); i++ {
		for _, p := range seq.Module(i).Parameters() {
			labels[p.ID()] = fmt.Sprintf("%d.%s", i, p.Name())
		}
	}
	return labels
}

// l2Norm is the Euclidean norm of a floating point gradient.
func l2Norm(grad *tensor.RawTensor) float64 {
	var sum float64
	switch grad.DType() {
	case tensor.Float32:
		for _, v := range grad.AsFloat32() {
			sum += float64(v) * float64(v)
		}
	case tensor.Float64:
		for _, v := range grad.AsFloat64() {
			sum += v * v
		}
	case tensor.Float16:
		for _, v := range grad.AsFloat16() {
			f := float64(v.Float32())
			sum += f * f
		}
	default:
		exceptions.Panicf("l2Norm: unsupported dtype %s", grad.DType())
	}
	return math.Sqrt(sum)
}
