package session

// applyPlacement issues the placement operations for a claimed window in a
// fixed order: desktop, geometry, position, focus. Focus runs last so that
// resizing and moving cannot steal focus mid-sequence. Each step is
// best-effort; a failed step is recorded and the remaining steps are still
// attempted. Steps whose field is unset on the spec are skipped.
func applyPlacement(inv Inventory, spec WindowSpec, id WindowID) []error {
	var errs []error

	if spec.Desktop != nil {
		if err := inv.SetDesktop(id, *spec.Desktop); err != nil {
			errs = append(errs, &PlacementError{Window: spec.Name, Op: "desktop", ID: id, Err: err})
		}
	}
	if spec.Geometry != nil {
		if err := inv.SetGeometry(id, spec.Geometry.Width, spec.Geometry.Height); err != nil {
			errs = append(errs, &PlacementError{Window: spec.Name, Op: "geometry", ID: id, Err: err})
		}
	}
	if spec.Position != nil {
		if err := inv.SetPosition(id, spec.Position.X, spec.Position.Y); err != nil {
			errs = append(errs, &PlacementError{Window: spec.Name, Op: "position", ID: id, Err: err})
		}
	}
	if spec.Focus {
		if err := inv.Focus(id); err != nil {
			errs = append(errs, &PlacementError{Window: spec.Name, Op: "focus", ID: id, Err: err})
		}
	}
	return errs
}
