package pmx

import "fmt"

// FrameTarget selects what a display frame element refers to.
type FrameTarget uint8

const (
	TargetBone  FrameTarget = 0
	TargetMorph FrameTarget = 1
)

// FrameElement is one bone or morph listed in a display frame.
type FrameElement struct {
	Target FrameTarget
	Index  int32
}

// Frame groups bones and morphs for display in editors.
type Frame struct {
	Name        string
	EnglishName string
	Special     bool
	Elements    []FrameElement
}

func (t FrameTarget) kind() (IndexKind, bool) {
	switch t {
	case TargetBone:
		return KindBone, true
	case TargetMorph:
		return KindMorph, true
	}
	return 0, false
}

func (r *reader) readFrame() Frame {
	var f Frame
	f.Name = r.text()
	f.EnglishName = r.text()
	f.Special = r.u8() != 0
	n := r.count()
	if r.failed() {
		return f
	}
	f.Elements = newList[[]FrameElement](n)
	for i := 0; i < n && !r.failed(); i++ {
		target := FrameTarget(r.u8())
		kind, ok := target.kind()
		if !ok {
			r.fail(fmt.Errorf("%w: frame element target %d", ErrUnknownVariantTag, uint8(target)))
			break
		}
		f.Elements = append(f.Elements, FrameElement{Target: target, Index: r.index(kind)})
	}
	return f
}

func (w *writer) writeFrame(f *Frame) {
	w.text(f.Name)
	w.text(f.EnglishName)
	w.flag(f.Special)
	w.count(len(f.Elements))
	for _, e := range f.Elements {
		kind, ok := e.Target.kind()
		if !ok {
			w.fail(fmt.Errorf("%w: frame element target %d", ErrUnknownVariantTag, uint8(e.Target)))
			return
		}
		w.u8(uint8(e.Target))
		w.index(kind, e.Index)
	}
}
