package ecs

// entityStore tracks entity generations, free ids and the dense list of live
// entities. Slot 0 is reserved so the zero Entity is never valid.
type entityStore struct {
	gen   []generation
	free  []entityID
	pos   []int
	dense []Entity
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if len(s.gen) == 0 {
			s.gen = append(s.gen, 0)
			s.pos = append(s.pos, -1)
		}
		id = entityID(len(s.gen))
		s.gen = append(s.gen, 0)
		s.pos = append(s.pos, -1)
	}
	e := makeEntity(id, s.gen[id])
	s.pos[id] = len(s.dense)
	s.dense = append(s.dense, e)
	return e
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	idx := s.pos[id]
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[idx] = moved
	s.pos[moved.id()] = idx
	s.dense = s.dense[:last]
	s.pos[id] = -1

	s.gen[id]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) >= len(s.gen) {
		return false
	}
	return s.gen[id] == e.generation() && s.pos[id] >= 0
}

func (s *entityStore) len() int {
	return len(s.dense)
}

func (s *entityStore) snapshot() []Entity {
	out := make([]Entity, len(s.dense))
	copy(out, s.dense)
	return out
}
