package pmx

// Vertex is a single mesh vertex.
type Vertex struct {
	Position Vec3
	Normal   Vec3
	UV       Vec2
	// AdditionalUV holds the extra UV channels; only the first
	// Settings.AdditionalUV entries are stored in the document.
	AdditionalUV [MaxAdditionalUV]Vec4
	Skinning     Skinning
	EdgeScale    float32
}

func (r *reader) readVertex() Vertex {
	var v Vertex
	v.Position = r.vec3()
	v.Normal = r.vec3()
	v.UV = r.vec2()
	for i := 0; i < int(r.settings.AdditionalUV); i++ {
		v.AdditionalUV[i] = r.vec4()
	}
	v.Skinning = r.readSkinning()
	v.EdgeScale = r.f32()
	return v
}

func (w *writer) writeVertex(v *Vertex) {
	w.vec3(v.Position)
	w.vec3(v.Normal)
	w.vec2(v.UV)
	for i := 0; i < int(w.settings.AdditionalUV); i++ {
		w.vec4(v.AdditionalUV[i])
	}
	w.writeSkinning(v.Skinning)
	w.f32(v.EdgeScale)
}
