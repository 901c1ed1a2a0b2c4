package core

// HittableList is an unaccelerated collection of objects that is searched linearly
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list over the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Hit returns the closest hit over all objects in the list
func (l *HittableList) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// BoundingBox returns the union of all member boxes. An empty list or a list
// holding an unbounded object has no box.
func (l *HittableList) BoundingBox(time0, time1 float64) (AABB, bool) {
	if len(l.Objects) == 0 {
		return AABB{}, false
	}

	var box AABB
	for i, object := range l.Objects {
		objectBox, ok := object.BoundingBox(time0, time1)
		if !ok {
			return AABB{}, false
		}
		if i == 0 {
			box = objectBox
		} else {
			box = box.Union(objectBox)
		}
	}
	return box, true
}
