package tdl

import "fmt"

// MergeIntersection collapses intersection operands into a single synthetic
// [Object]. The merge is structural and shallow: operands are walked left to
// right, properties with the same name are overwritten wholesale (rightmost
// wins, first position kept), index signatures are concatenated in order, and
// the Closed flag becomes true if any operand is closed.
func (d *Document) MergeIntersection(members []Node) (*Object, error) {
	return d.mergeIntersection(members, make(map[string]bool))
}

func (d *Document) mergeIntersection(members []Node, visiting map[string]bool) (*Object, error) {
	merged := &Object{}
	index := make(map[string]int)

	for _, member := range members {
		obj, err := d.resolveObject(member, visiting)
		if err != nil {
			return nil, err
		}

		for _, p := range obj.Props {
			if i, ok := index[p.Name]; ok {
				merged.Props[i] = p
			} else {
				index[p.Name] = len(merged.Props)
				merged.Props = append(merged.Props, p)
			}
		}

		merged.IndexSigs = append(merged.IndexSigs, obj.IndexSigs...)

		if obj.Closed {
			merged.Closed = true
		}
	}

	return merged, nil
}

// resolveObject resolves an intersection operand to an [Object]: objects
// stand for themselves, references are looked up in the type table, nested
// intersections merge recursively. Anything else is an authoring error.
// Merging needs operand structure rather than a $ref, so reference cycles
// cannot be placeholder-broken here; they are reported instead.
func (d *Document) resolveObject(n Node, visiting map[string]bool) (*Object, error) {
	switch n := n.(type) {
	case *Object:
		return n, nil

	case *Ref:
		if visiting[n.Name] {
			return nil, fmt.Errorf("%w: recursive reference %s in intersection", ErrUnsupported, n.Name)
		}

		target, ok := d.Type(n.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, n.Name)
		}

		visiting[n.Name] = true
		obj, err := d.resolveObject(target, visiting)
		delete(visiting, n.Name)

		return obj, err

	case *Intersection:
		return d.mergeIntersection(n.Members, visiting)
	}

	return nil, fmt.Errorf("%w: intersection operands must be object-like", ErrInvalidShape)
}
