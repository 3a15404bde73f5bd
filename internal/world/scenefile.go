package world

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
)

// --- JSON types ---

type SceneFile struct {
	Name    string      `json:"name,omitempty"`
	Objects []ObjectDef `json:"objects"`
}

// ObjectDef is one GameObject. Rotation is Euler degrees; Parent names an
// object anywhere in the same file.
type ObjectDef struct {
	Name       string            `json:"name"`
	Parent     string            `json:"parent,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Position   [3]float32        `json:"position"`
	Rotation   [3]float32        `json:"rotation"`
	Scale      [3]float32        `json:"scale"`
	Components []json.RawMessage `json:"components,omitempty"`
}

type componentHeader struct {
	Type string `json:"type"`
}

// referenceResolver is implemented by components that link to other objects
// by name and must be fixed up once the whole scene exists.
type referenceResolver interface {
	ResolveReferences(scene *engine.Scene)
}

// --- Loading ---

func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	return w.LoadSceneData(data)
}

// LoadSceneData adds the objects described by a scene file to the world.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}
	if sf.Name != "" {
		w.Scene.Name = sf.Name
	}

	created := make([]*engine.GameObject, len(sf.Objects))
	byName := make(map[string]*engine.GameObject, len(sf.Objects))
	for i, objDef := range sf.Objects {
		g := engine.NewGameObject(objDef.Name)
		g.Tags = objDef.Tags
		g.Transform.Position = rl.Vector3{X: objDef.Position[0], Y: objDef.Position[1], Z: objDef.Position[2]}
		g.Transform.SetEuler(rl.Vector3{X: objDef.Rotation[0], Y: objDef.Rotation[1], Z: objDef.Rotation[2]})

		// Default scale to 1 if zero
		if objDef.Scale == [3]float32{} {
			g.Transform.Scale = rl.Vector3{X: 1, Y: 1, Z: 1}
		} else {
			g.Transform.Scale = rl.Vector3{X: objDef.Scale[0], Y: objDef.Scale[1], Z: objDef.Scale[2]}
		}

		for _, raw := range objDef.Components {
			if err := loadComponent(g, raw); err != nil {
				return fmt.Errorf("object %q: %w", objDef.Name, err)
			}
		}

		created[i] = g
		if _, dup := byName[objDef.Name]; !dup {
			byName[objDef.Name] = g
		}
	}

	for i, objDef := range sf.Objects {
		if objDef.Parent == "" {
			continue
		}
		parent, ok := byName[objDef.Parent]
		if !ok {
			return fmt.Errorf("object %q: parent %q not found", objDef.Name, objDef.Parent)
		}
		if parent == created[i] || parent.IsDescendantOf(created[i]) {
			return fmt.Errorf("object %q: parent %q would form a cycle", objDef.Name, objDef.Parent)
		}
		parent.AddChild(created[i])
	}

	for _, g := range created {
		w.Scene.AddGameObject(g)
	}
	for _, g := range created {
		for _, c := range g.Components() {
			if r, ok := c.(referenceResolver); ok {
				r.ResolveReferences(w.Scene)
			}
		}
	}
	return nil
}

func loadComponent(g *engine.GameObject, raw json.RawMessage) error {
	var header componentHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return fmt.Errorf("parse component: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse %s: %w", header.Type, err)
	}
	comp := engine.CreateComponent(header.Type, data)
	if comp == nil {
		log.Printf("Scene: skipping unknown component %q on %q", header.Type, g.Name)
		return nil
	}
	g.AddComponent(comp)
	return nil
}

// --- Saving ---

func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// MarshalScene encodes the scene in the format LoadSceneData reads.
func (w *World) MarshalScene() ([]byte, error) {
	sf := SceneFile{Name: w.Scene.Name}

	for _, g := range w.Scene.GameObjects {
		euler := g.Transform.Euler()
		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: [3]float32{g.Transform.Position.X, g.Transform.Position.Y, g.Transform.Position.Z},
			Rotation: [3]float32{euler.X, euler.Y, euler.Z},
			Scale:    [3]float32{g.Transform.Scale.X, g.Transform.Scale.Y, g.Transform.Scale.Z},
		}
		if g.Parent != nil {
			objDef.Parent = g.Parent.Name
		}

		for _, c := range g.Components() {
			s, ok := c.(engine.Serializable)
			if !ok {
				continue
			}
			raw, err := json.Marshal(s.Serialize())
			if err != nil {
				return nil, fmt.Errorf("marshal %s on %q: %w", s.TypeName(), g.Name, err)
			}
			objDef.Components = append(objDef.Components, raw)
		}

		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}
