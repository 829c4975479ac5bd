package pgde

import (
	"reflect"
	"sync"
)

type (
	fieldDecoder func(Value) (reflect.Value, error)

	registryEntry struct {
		typed  any
		decode fieldDecoder
	}

	// Registry сопоставляет типы Go с их экстракторами.
	// Используется при выводе раскладки структур в Derive.
	Registry struct {
		sync.RWMutex
		entries map[reflect.Type]registryEntry

		records sync.Map // reflect.Type -> record
	}
)

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// NewRegistry - пустой реестр без базовых типов
func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]registryEntry)}
}

// DefaultRegistry - общий реестр с базовым набором типов.
// Расширения попадают в него только через явный вызов своего Register.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBase(defaultRegistry)
	})

	return defaultRegistry
}

func registerBase(reg *Registry) {
	Register(reg, Bool)
	Register(reg, Int8)
	Register(reg, Int16)
	Register(reg, Int32)
	Register(reg, Int64)
	Register(reg, Uint32)
	Register(reg, Float32)
	Register(reg, Float64)
	Register(reg, Bytes)
	Register(reg, String)
	Register(reg, Timestamp)
	Register(reg, IP)
}

// Register добавляет или заменяет экстрактор типа T.
// Выведенные ранее раскладки структур сбрасываются и строятся заново при следующем Derive.
func Register[T any](reg *Registry, ex Extractor[T]) {
	reg.Lock()
	defer reg.Unlock()

	reg.records.Clear()

	reg.entries[typeOf[T]()] = registryEntry{
		typed: ex,
		decode: func(val Value) (reflect.Value, error) {
			out, err := ex(val)
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(&out).Elem(), nil
		},
	}
}

// Registered - true, если для типа t зарегистрирован экстрактор
func (reg *Registry) Registered(t reflect.Type) bool {
	_, ok := reg.lookup(t)

	return ok
}

func (reg *Registry) lookup(t reflect.Type) (registryEntry, bool) {
	reg.RLock()
	defer reg.RUnlock()

	entry, ok := reg.entries[t]

	return entry, ok
}

func lookupExtractor[T any](reg *Registry) (Extractor[T], bool) {
	entry, ok := reg.lookup(typeOf[T]())
	if !ok {
		return nil, false
	}

	ex, ok := entry.typed.(Extractor[T])

	return ex, ok
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
