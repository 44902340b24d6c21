// Package export writes a posed frame as a binary glTF (.glb) scene.
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"md5-renderer/internal/buffers"
	"md5-renderer/internal/filter"
	"md5-renderer/internal/model"
	"md5-renderer/internal/skeleton"
	"md5-renderer/internal/texture"
)

// Options controls what goes into the document.
type Options struct {
	Name       string
	Textures   texture.Resolver // embeds base color and normal textures when set
	SkipHidden bool             // leave out collision/shadow helper meshes
	NoSkeleton bool             // leave out joint nodes
}

// zUpToYUp is Rx(-90°) as a quaternion (x, y, z, w).
var zUpToYUp = [4]float32{-float32(math.Sqrt2 / 2), 0, 0, float32(math.Sqrt2 / 2)}

// Build converts a frame into a glTF document. MD5 data is Z-up with
// clockwise front faces; the scene root rotates to Y-up and indices are
// reversed to counter-clockwise.
func Build(ch *model.Character, f *model.Frame, opts Options) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	name := opts.Name
	if name == "" {
		name = "md5"
	}
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Rotation: zUpToYUp})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	root := doc.Nodes[0]

	textures := map[string]uint32{}
	mats := ch.Materials()
	for i := range f.Meshes {
		mesh := &ch.Mesh.Meshes[i]
		if opts.SkipHidden && filter.IsHidden(mesh) {
			continue
		}
		mf := &f.Meshes[i]
		b := buffers.FromMesh(mesh, mf.Positions, mf.Surface)

		matIdx, err := addMaterial(doc, mats[i], opts.Textures, textures)
		if err != nil {
			return nil, fmt.Errorf("export: mesh %d: %w", i, err)
		}

		indices := make([]uint32, len(b.Indices))
		for t := 0; t+2 < len(b.Indices); t += 3 {
			indices[t], indices[t+1], indices[t+2] = b.Indices[t+2], b.Indices[t+1], b.Indices[t]
		}
		attributes := map[string]uint32{
			"POSITION":   modeler.WritePosition(doc, pack3(b.Positions)),
			"NORMAL":     modeler.WriteNormal(doc, pack3(b.Normals)),
			"TANGENT":    modeler.WriteTangent(doc, pack4(b.Tangents)),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, pack2(b.UVs)),
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: mesh.Shader,
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: attributes,
				Material:   gltf.Index(matIdx),
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: fmt.Sprintf("mesh%d", i),
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		root.Children = append(root.Children, uint32(len(doc.Nodes)-1))
	}

	if !opts.NoSkeleton {
		addJoints(doc, root, ch, f.Pose)
	}
	return doc, nil
}

// Save writes doc as a .glb file.
func Save(doc *gltf.Document, path string) error {
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

// addJoints appends one node per joint carrying its parent-relative pose.
func addJoints(doc *gltf.Document, root *gltf.Node, ch *model.Character, pose skeleton.Pose) {
	base := uint32(len(doc.Nodes))
	for i, j := range ch.Mesh.Joints {
		local := pose[i]
		if j.Parent >= 0 {
			parent := pose[j.Parent]
			inv := parent.Orient.Conjugate()
			local = skeleton.Transform{
				Position: inv.Rotate(pose[i].Position.Sub(parent.Position)),
				Orient:   inv.Mul(pose[i].Orient).Normalize(),
			}
		}
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        j.Name,
			Translation: [3]float32{float32(local.Position[0]), float32(local.Position[1]), float32(local.Position[2])},
			Rotation:    [4]float32{float32(local.Orient[0]), float32(local.Orient[1]), float32(local.Orient[2]), float32(local.Orient[3])},
		})
		idx := base + uint32(i)
		if j.Parent < 0 {
			root.Children = append(root.Children, idx)
		} else {
			p := doc.Nodes[base+uint32(j.Parent)]
			p.Children = append(p.Children, idx)
		}
	}
}

func addMaterial(doc *gltf.Document, m texture.Material, r texture.Resolver, cache map[string]uint32) (uint32, error) {
	rough := float32(0.8)
	metal := float32(0)
	mat := &gltf.Material{
		Name: m.Shader,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			RoughnessFactor: &rough,
			MetallicFactor:  &metal,
		},
		DoubleSided: true,
	}
	if r != nil {
		tex, err := embedTexture(doc, r, m.Diffuse, cache)
		if err != nil {
			return 0, err
		}
		if tex != nil {
			mat.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *tex}
		}
		if tex, err = embedTexture(doc, r, m.Normal, cache); err != nil {
			return 0, err
		}
		if tex != nil {
			mat.NormalTexture = &gltf.NormalTexture{Index: tex}
		}
	}
	doc.Materials = append(doc.Materials, mat)
	return uint32(len(doc.Materials) - 1), nil
}

// embedTexture stores the first resolvable candidate as a PNG image and
// returns its texture index, or nil when none resolves.
func embedTexture(doc *gltf.Document, r texture.Resolver, names []string, cache map[string]uint32) (*uint32, error) {
	img, name := texture.First(r, names)
	if img == nil {
		return nil, nil
	}
	if idx, ok := cache[name]; ok {
		return gltf.Index(idx), nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	imgIdx, err := modeler.WriteImage(doc, name+".png", "image/png", &buf)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", name, err)
	}
	if len(doc.Samplers) == 0 {
		doc.Samplers = []*gltf.Sampler{{}}
	}
	doc.Textures = append(doc.Textures, &gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(imgIdx)})
	idx := uint32(len(doc.Textures) - 1)
	cache[name] = idx
	return gltf.Index(idx), nil
}

func pack2(f []float32) [][2]float32 {
	out := make([][2]float32, len(f)/2)
	for i := range out {
		out[i] = [2]float32{f[2*i], f[2*i+1]}
	}
	return out
}

func pack3(f []float32) [][3]float32 {
	out := make([][3]float32, len(f)/3)
	for i := range out {
		out[i] = [3]float32{f[3*i], f[3*i+1], f[3*i+2]}
	}
	return out
}

func pack4(f []float32) [][4]float32 {
	out := make([][4]float32, len(f)/4)
	for i := range out {
		out[i] = [4]float32{f[4*i], f[4*i+1], f[4*i+2], f[4*i+3]}
	}
	return out
}
