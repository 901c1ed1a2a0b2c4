package core

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// bvhRef points at either a primitive (leaf) or another internal node of the arena
type bvhRef struct {
	index int
	leaf  bool
}

// bvhNode is an internal node of the hierarchy. Its box is the exact union of its children's boxes.
type bvhNode struct {
	box   AABB
	left  bvhRef
	right bvhRef
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// Nodes live in a flat arena addressed by index; the tree is read-only once built,
// so any number of goroutines may call Hit concurrently.
type BVH struct {
	nodes   []bvhNode
	objects []Hittable
	root    int
}

// bvhItem caches the bounding box of a primitive during construction
type bvhItem struct {
	object Hittable
	box    AABB
}

// NewBVH builds a hierarchy over objects using boxes computed for the shutter
// interval [time0, time1]. Split axes are drawn from random.
//
// Building over fewer than two objects is a caller error and panics; a
// primitive without a bounding box is reported as an error.
func NewBVH(objects []Hittable, time0, time1 float64, random *rand.Rand) (*BVH, error) {
	if len(objects) < 2 {
		panic("core: BVH requires at least two objects")
	}

	// Work on a copy so the caller's slice order is left alone
	items := make([]bvhItem, len(objects))
	for i, object := range objects {
		box, ok := object.BoundingBox(time0, time1)
		if !ok {
			return nil, errors.Errorf("object %d (%T) has no bounding box", i, object)
		}
		if !box.IsValid() {
			return nil, errors.Errorf("object %d (%T) has an invalid bounding box %v", i, object, box)
		}
		items[i] = bvhItem{object: object, box: box}
	}

	bvh := &BVH{
		nodes:   make([]bvhNode, 0, len(objects)-1),
		objects: make([]Hittable, 0, len(objects)),
	}
	bvh.root = bvh.build(items, random)
	return bvh, nil
}

// build recursively partitions items and returns the index of the created node.
// Children are appended before their parent, so the arena is filled bottom-up.
func (bvh *BVH) build(items []bvhItem, random *rand.Rand) int {
	axis := random.Intn(3)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].box.Min.Index(axis) < items[j].box.Min.Index(axis)
	})

	var node bvhNode
	switch len(items) {
	case 0, 1:
		panic("core: BVH partition reached a single object")
	case 2:
		node.left = bvh.leaf(items[1])
		node.right = bvh.leaf(items[0])
		node.box = items[1].box.Union(items[0].box)
	case 3:
		node.left = bvh.leaf(items[2])
		right := bvh.build(items[:2], random)
		node.right = bvhRef{index: right}
		node.box = items[2].box.Union(bvh.nodes[right].box)
	default:
		mid := len(items) / 2
		left := bvh.build(items[mid:], random)
		right := bvh.build(items[:mid], random)
		node.left = bvhRef{index: left}
		node.right = bvhRef{index: right}
		node.box = bvh.nodes[left].box.Union(bvh.nodes[right].box)
	}

	bvh.nodes = append(bvh.nodes, node)
	return len(bvh.nodes) - 1
}

// leaf registers a primitive and returns a reference to it
func (bvh *BVH) leaf(item bvhItem) bvhRef {
	bvh.objects = append(bvh.objects, item.object)
	return bvhRef{index: len(bvh.objects) - 1, leaf: true}
}

// Hit tests if a ray intersects any object in the BVH
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	return bvh.hitRef(bvhRef{index: bvh.root}, ray, tMin, tMax)
}

// hitRef returns the closer of the two child hits, pruning subtrees whose box the ray misses
func (bvh *BVH) hitRef(ref bvhRef, ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if ref.leaf {
		return bvh.objects[ref.index].Hit(ray, tMin, tMax)
	}

	node := &bvh.nodes[ref.index]
	if !node.box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := bvh.hitRef(node.left, ray, tMin, tMax)

	// A right hit only matters if it is closer than the left one
	closestSoFar := tMax
	if hitLeft {
		closestSoFar = leftHit.T
	}
	if rightHit, hitRight := bvh.hitRef(node.right, ray, tMin, closestSoFar); hitRight {
		return rightHit, true
	}

	return leftHit, hitLeft
}

// BoundingBox returns the box of the root node
func (bvh *BVH) BoundingBox(time0, time1 float64) (AABB, bool) {
	return bvh.nodes[bvh.root].box, true
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Nodes    int // Internal nodes
	Objects  int // Primitives referenced by leaves
	MaxDepth int // Deepest leaf, counting the root as depth 0
}

// Stats walks the tree and collects statistics about its shape
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Nodes: len(bvh.nodes), Objects: len(bvh.objects)}
	bvh.collectDepth(bvhRef{index: bvh.root}, 0, &stats)
	return stats
}

// collectDepth recursively records the deepest leaf
func (bvh *BVH) collectDepth(ref bvhRef, depth int, stats *BVHStats) {
	if ref.leaf {
		stats.MaxDepth = max(stats.MaxDepth, depth)
		return
	}
	node := bvh.nodes[ref.index]
	bvh.collectDepth(node.left, depth+1, stats)
	bvh.collectDepth(node.right, depth+1, stats)
}
