package scene

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instanced_mesh"
	"github.com/Carmen-Shannon/oxy-cubes/engine/light"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
)

// ErrNotInitialized is returned by DrawCalls before Init has succeeded.
var ErrNotInitialized = errors.New("scene not initialized")

// Renderer is the part of renderer.Renderer a scene draws through.
type Renderer interface {
	instanced_mesh.GPUAllocator

	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	Pipeline(key string) pipeline.Pipeline
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	name   string
	cam    camera.Camera
	lights []light.Light
	meshes []instanced_mesh.InstancedMesh

	lightsBGP bind_group_provider.BindGroupProvider

	// binding indices discovered from shader declarations during Init; -1 when no pipeline uses them
	cameraBinding int
	lightBinding  int

	initialized bool

	// Reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

// Scene is the set of things drawn each frame: a camera, up to light.MaxLights lights and
// any number of instanced meshes.
//
// Init builds one pipeline per material key and allocates all GPU resources. DrawCalls
// refreshes the camera and light uniforms and issues one instanced draw per non-empty mesh,
// resolving each @group of the mesh's pipeline from the shader declarations: a camera
// group binds the camera provider, light_block binds the scene light provider, and an
// array<instance> group binds the mesh's instance provider.
type Scene interface {
	// Name retrieves the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Camera retrieves the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Lights returns a copy of the scene lights.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// AddLight appends a light to the scene.
	//
	// Parameters:
	//   - l: the light to add
	//
	// Returns:
	//   - error: light.ErrTooManyLights if the scene already holds light.MaxLights lights
	AddLight(l light.Light) error

	// Meshes returns a copy of the scene meshes in draw order.
	//
	// Returns:
	//   - []instanced_mesh.InstancedMesh: the meshes
	Meshes() []instanced_mesh.InstancedMesh

	// AddMesh appends a mesh to the draw list. Meshes added after Init are initialized on
	// the next Init call.
	//
	// Parameters:
	//   - m: the mesh to add
	AddMesh(m instanced_mesh.InstancedMesh)

	// LightBindGroupProvider retrieves the provider holding the light block uniform.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the light provider
	LightBindGroupProvider() bind_group_provider.BindGroupProvider

	// Init registers a render pipeline per material and allocates the camera, light and
	// mesh GPU resources. Safe to call again after adding meshes.
	//
	// Parameters:
	//   - r: the renderer to allocate on
	//
	// Returns:
	//   - error: a pipeline build, registration or allocation error
	Init(r Renderer) error

	// DrawCalls updates the camera, uploads the camera uniform and light block, and encodes
	// one draw per non-empty mesh. Must run between the renderer's BeginFrame and EndFrame.
	//
	// Parameters:
	//   - r: the renderer to draw with
	//
	// Returns:
	//   - error: ErrNotInitialized, a light block error, or a draw error
	DrawCalls(r Renderer) error

	// Release frees the scene's light and mesh GPU resources.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a new Scene viewed through cam. NewScene panics if cam is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:                 &sync.Mutex{},
		name:               name,
		cam:                cam,
		cameraBinding:      -1,
		lightBinding:       -1,
		writePool:          make([]bind_group_provider.BufferWrite, 0, 2),
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 3),
	}
	s.lightsBGP = bind_group_provider.NewBindGroupProvider(name + "_lights")

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}

func (s *scene) Lights() []light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]light.Light(nil), s.lights...)
}

func (s *scene) AddLight(l light.Light) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLight(l)
}

// addLight appends l unless the scene is full. Caller must hold the mutex.
func (s *scene) addLight(l light.Light) error {
	if len(s.lights) >= light.MaxLights {
		return fmt.Errorf("scene %q: %w (max %d)", s.name, light.ErrTooManyLights, light.MaxLights)
	}
	s.lights = append(s.lights, l)
	return nil
}

func (s *scene) Meshes() []instanced_mesh.InstancedMesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]instanced_mesh.InstancedMesh(nil), s.meshes...)
}

func (s *scene) AddMesh(m instanced_mesh.InstancedMesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meshes = append(s.meshes, m)
}

func (s *scene) LightBindGroupProvider() bind_group_provider.BindGroupProvider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lightsBGP
}

func (s *scene) Init(r Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.meshes {
		p, err := s.pipelineFor(r, m.Material())
		if err != nil {
			return err
		}

		for _, decl := range p.Declarations() {
			if decl.Group == nil || decl.Binding == nil {
				continue
			}
			g, binding := *decl.Group, *decl.Binding
			structType, isArray := decl.StructType()
			layout := p.BindGroupLayoutDescriptor(g)

			switch {
			case structType == shader.AnnotationArgCamera && s.cameraBinding < 0:
				if err := r.InitBindGroup(s.cam.BindGroupProvider(), layout, nil); err != nil {
					return fmt.Errorf("scene %q: init camera bind group: %w", s.name, err)
				}
				s.cameraBinding = binding
			case structType == shader.AnnotationArgLightBlock && s.lightBinding < 0:
				if err := r.InitBindGroup(s.lightsBGP, layout, nil); err != nil {
					return fmt.Errorf("scene %q: init light bind group: %w", s.name, err)
				}
				s.lightBinding = binding
			case structType == shader.AnnotationArgInstance && isArray:
				if err := m.InitGPU(r, layout); err != nil {
					return fmt.Errorf("scene %q: %w", s.name, err)
				}
			}
		}
	}

	s.initialized = true
	log.Printf("[Scene] %s initialized: %d meshes, %d lights", s.name, len(s.meshes), len(s.lights))
	return nil
}

// pipelineFor returns the registered pipeline for mat, building and registering it on first
// use. Caller must hold the mutex.
func (s *scene) pipelineFor(r Renderer, mat material.Material) (pipeline.Pipeline, error) {
	if p := r.Pipeline(mat.PipelineKey()); p != nil {
		return p, nil
	}
	p, err := material.BuildPipeline(mat)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.name, err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.name, err)
	}
	return p, nil
}

func (s *scene) DrawCalls(r Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("scene %q: %w", s.name, ErrNotInitialized)
	}

	s.cam.Update()

	writes := s.writePool[:0]
	if s.cameraBinding >= 0 {
		uniform := s.cam.Uniform()
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.cam.BindGroupProvider(),
			Binding:  s.cameraBinding,
			Data:     uniform.Marshal(),
		})
	}
	if s.lightBinding >= 0 {
		block, err := light.MarshalBlock(s.lights)
		if err != nil {
			return fmt.Errorf("scene %q: %w", s.name, err)
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.lightsBGP,
			Binding:  s.lightBinding,
			Data:     block,
		})
	}
	if len(writes) > 0 {
		r.WriteBuffers(writes)
	}
	s.writePool = writes

	for _, m := range s.meshes {
		if m.InstanceCount() == 0 || !m.Initialized() {
			continue
		}

		pipelineKey := m.Material().PipelineKey()
		p := r.Pipeline(pipelineKey)
		if p == nil {
			return fmt.Errorf("scene %q: render pipeline %q not registered", s.name, pipelineKey)
		}

		bindGroups, err := s.bindGroupsFor(p, m)
		if err != nil {
			return err
		}

		if err := r.DrawCall(pipelineKey, m.Model().MeshProvider(), uint32(m.InstanceCount()), bindGroups); err != nil {
			return fmt.Errorf("draw call failed for mesh %q in scene %q: %w", m.Name(), s.name, err)
		}
	}

	return nil
}

// bindGroupsFor resolves the provider for every @group of p, in group order.
// Caller must hold the mutex.
func (s *scene) bindGroupsFor(p pipeline.Pipeline, m instanced_mesh.InstancedMesh) ([]bind_group_provider.BindGroupProvider, error) {
	maxGroup := -1
	groupProviders := make(map[int]bind_group_provider.BindGroupProvider, 3)
	for _, decl := range p.Declarations() {
		if decl.Group == nil {
			continue
		}
		g := *decl.Group
		maxGroup = max(maxGroup, g)
		if _, exists := groupProviders[g]; exists {
			continue
		}

		structType, isArray := decl.StructType()
		switch {
		case structType == shader.AnnotationArgCamera:
			groupProviders[g] = s.cam.BindGroupProvider()
		case structType == shader.AnnotationArgLightBlock:
			groupProviders[g] = s.lightsBGP
		case structType == shader.AnnotationArgInstance && isArray:
			groupProviders[g] = m.InstanceProvider()
		}
	}

	bindGroups := s.drawBindGroupsPool[:0]
	for g := 0; g <= maxGroup; g++ {
		provider, ok := groupProviders[g]
		if !ok {
			return nil, fmt.Errorf("scene %q: no provider for @group(%d) of pipeline %q", s.name, g, p.PipelineKey())
		}
		bindGroups = append(bindGroups, provider)
	}
	s.drawBindGroupsPool = bindGroups
	return bindGroups, nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meshes {
		m.Release()
		m.Model().Release()
	}
	s.lightsBGP.Release()
	if bgp := s.cam.BindGroupProvider(); bgp != nil {
		bgp.Release()
	}
	s.cameraBinding = -1
	s.lightBinding = -1
	s.initialized = false
}
