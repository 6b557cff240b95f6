package layout

// DebugHitTest finds the deepest box of the last published layout whose
// rect contains pos. Children are searched last to first so boxes drawn on
// top win. In exhaustive mode boxes that do not contain pos are searched
// too, which finds children that overflow an unclipped parent.
func (e *Engine) DebugHitTest(pos Vec2, exhaustive bool) (BoxRecord, BoxLayoutResult, bool) {
	if e.resultPtr(e.previous(), RootKey) == nil {
		return BoxRecord{}, invalidResult, false
	}
	key := e.hitTest(RootKey, pos, exhaustive)
	if key.IsInvalid() {
		return BoxRecord{}, invalidResult, false
	}
	return *e.record(key), e.Result(key), true
}

func (e *Engine) hitTest(key Key, pos Vec2, exhaustive bool) Key {
	res := e.resultPtr(e.previous(), key)
	if res == nil {
		return InvalidKey
	}
	inside := res.Rect.Contains(pos)
	if !inside && !exhaustive {
		return InvalidKey
	}
	for child := range e.ChildrenReverse(key) {
		if hit := e.hitTest(child, pos, exhaustive); !hit.IsInvalid() {
			return hit
		}
	}
	if inside {
		return key
	}
	return InvalidKey
}
