package scene

// Wireframe shaders: unlit lines with per-vertex color.
const wireVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aColor;

uniform mat4 uMVP;
uniform float uPointSize;

out vec3 vColor;

void main() {
    vColor = aColor;
    gl_PointSize = uPointSize;
    gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

const wireFragmentShader = `#version 410 core
in vec3 vColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(vColor, 1.0);
}
`
