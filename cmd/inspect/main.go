package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"

	"gonum.org/v1/gonum/spatial/r3"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/filter"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/model"
	"md5-renderer/internal/skeleton"
	"md5-renderer/internal/skin"
)

func main() {
	meshPath := flag.String("mesh", "", "Path to .md5mesh")
	animPath := flag.String("anim", "", "Path to .md5anim")
	frame := flag.Int("frame", -1, "Frame to evaluate (-1: bind pose)")
	showJoints := flag.Bool("joints", false, "List joints")
	allFrames := flag.Bool("bounds", false, "Compare computed bounds with the animation's bounds for every frame")
	flag.Parse()

	if *meshPath == "" && flag.NArg() > 0 {
		*meshPath = flag.Arg(0)
	}
	if *meshPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect -mesh file.md5mesh [-anim file.md5anim] [-frame N] [-joints] [-bounds]")
		os.Exit(2)
	}

	ch, err := model.Load(*meshPath, *animPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	m := ch.Mesh
	fmt.Printf("Mesh: %s\n", *meshPath)
	fmt.Printf("  commandline: %q\n", m.CommandLine)
	fmt.Printf("  Joints: %d, Meshes: %d\n", len(m.Joints), len(m.Meshes))
	if *showJoints {
		for i, j := range m.Joints {
			fmt.Printf("  [%3d] %-24s parent=%3d pos=(%.3f %.3f %.3f) orient=(%.4f %.4f %.4f %.4f)\n",
				i, j.Name, j.Parent, j.Position[0], j.Position[1], j.Position[2],
				j.Orient[0], j.Orient[1], j.Orient[2], j.Orient[3])
		}
	}

	var warnings diag.Collector
	f, err := ch.Build(*frame, &warnings)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		maxInfluence, minSum, maxSum := 0, math.Inf(1), math.Inf(-1)
		for _, v := range mesh.Vertices {
			maxInfluence = max(maxInfluence, v.WeightCount)
			sum := 0.0
			for _, w := range mesh.Weights[v.WeightStart : v.WeightStart+v.WeightCount] {
				sum += w.Bias
			}
			minSum, maxSum = math.Min(minSum, sum), math.Max(maxSum, sum)
		}
		hidden := ""
		if filter.IsHidden(mesh) {
			hidden = " (hidden)"
		}
		fmt.Printf("  Mesh[%d]: shader=%q%s\n", i, mesh.Shader, hidden)
		fmt.Printf("    verts=%d tris=%d weights=%d islands=%d\n",
			len(mesh.Vertices), len(mesh.Triangles), len(mesh.Weights), len(filter.Components(mesh)))
		if len(mesh.Vertices) > 0 {
			fmt.Printf("    influences<=%d bias sum [%.4f, %.4f]\n", maxInfluence, minSum, maxSum)
		}
		invalid := 0
		for _, ok := range f.Meshes[i].Surface.FaceValid {
			if !ok {
				invalid++
			}
		}
		if invalid > 0 {
			fmt.Printf("    %d triangles without a tangent frame\n", invalid)
		}
	}

	lo, hi, _ := f.Bounds()
	size := r3.Sub(vec(hi), vec(lo))
	fmt.Printf("  Frame %d bounds: (%.2f %.2f %.2f) - (%.2f %.2f %.2f), size %.2f x %.2f x %.2f\n",
		f.Index, lo[0], lo[1], lo[2], hi[0], hi[1], hi[2], size.X, size.Y, size.Z)

	if ch.Anim != nil {
		a := ch.Anim
		fmt.Printf("Anim: %s\n", *animPath)
		fmt.Printf("  frames=%d rate=%d duration=%.2fs components=%d\n",
			len(a.Frames), a.FrameRate, a.Duration(), a.NumAnimatedComponents)
		if *allFrames && len(a.Bounds) == len(a.Frames) {
			compareBounds(ch)
		}
	}

	ws := warnings.Warnings()
	fmt.Printf("Warnings: %d (weight-sum %d, degenerate-uv %d, degenerate-face %d)\n", len(ws),
		warnings.Count(diag.WeightSum), warnings.Count(diag.DegenerateUV), warnings.Count(diag.DegenerateFace))
	for _, w := range ws[:min(len(ws), 20)] {
		fmt.Printf("  %s\n", w)
	}
}

// compareBounds reports frames whose skinned bounds stray from the stored ones.
func compareBounds(ch *model.Character) {
	poses, err := skeleton.ResolveAll(ch.Anim, runtime.NumCPU())
	if err != nil {
		fmt.Printf("  bounds: %v\n", err)
		return
	}
	worst, worstFrame := 0.0, -1
	for i, pose := range poses {
		pos, err := skin.EvaluateAll(ch.Mesh, pose, diag.Discard)
		if err != nil {
			fmt.Printf("  frame %d: %v\n", i, err)
			return
		}
		lo, hi := vecBounds(pos)
		b := ch.Anim.Bounds[i]
		d := math.Max(r3.Norm(r3.Sub(lo, vec(b.Min))), r3.Norm(r3.Sub(hi, vec(b.Max))))
		if d > worst {
			worst, worstFrame = d, i
		}
	}
	fmt.Printf("  bounds: largest corner deviation %.3f at frame %d\n", worst, worstFrame)
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func vecBounds(sets [][]mathutil.Vec3) (lo, hi r3.Vec) {
	lo = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, set := range sets {
		for _, p := range set {
			lo = r3.Vec{X: math.Min(lo.X, p[0]), Y: math.Min(lo.Y, p[1]), Z: math.Min(lo.Z, p[2])}
			hi = r3.Vec{X: math.Max(hi.X, p[0]), Y: math.Max(hi.Y, p[1]), Z: math.Max(hi.Z, p[2])}
		}
	}
	return lo, hi
}
