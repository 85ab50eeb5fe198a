package repository

import "errors"

// ErrNotFound возвращают все хранилища, когда задачи с таким id нет
var ErrNotFound = errors.New("задача не найдена")
